package nwin

import (
	"golang.org/x/sys/windows"
)

// ProcessImagePath returns the full path of the executable a process runs.
// Access is often denied for processes of other users or elevated ones.
func ProcessImagePath(pid int) (string, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(handle)

	b := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(b))
	err = windows.QueryFullProcessImageName(handle, 0, &b[0], &size)
	if err != nil {
		return "", err
	}
	return windows.UTF16ToString(b[:size]), nil
}
