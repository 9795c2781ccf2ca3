package nwin

import (
	"github.com/scjalliance/comshim"
	"golang.org/x/sys/windows"
)

// ShellOpen asks Explorer to open dir.
func ShellOpen(dir string) error {
	// the shell may hand the verb to COM handlers
	comshim.Add(1)
	defer comshim.Done()

	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL)
}
