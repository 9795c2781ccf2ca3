package nwin

import (
	"syscall"

	"github.com/lxn/win"
	"github.com/pkg/errors"
)

const (
	RoamingAppData = win.CSIDL_APPDATA
	LocalAppData   = win.CSIDL_LOCAL_APPDATA
)

// SpecialFolder asks shell32 for a per-user folder such as RoamingAppData.
func SpecialFolder(csidl win.CSIDL) (string, error) {
	buf := make([]uint16, syscall.MAX_PATH+1)
	if !win.SHGetSpecialFolderPath(0, &buf[0], csidl, false) {
		return "", errors.Errorf("could not get special folder %d", csidl)
	}
	return syscall.UTF16ToString(buf), nil
}
