package cli

import (
	"errors"
	"strings"

	"github.com/vburojevic/rogcat/internal/adb"
	"github.com/vburojevic/rogcat/internal/output"
)

func hintForTooling(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, adb.ErrToolNotFound) {
		return "adb not found; install Android platform-tools or pass --adb (then `rogcat doctor`)"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "more than one device"):
		return "Several devices are attached; pass -s <serial> (see `rogcat devices`)"
	case strings.Contains(msg, "no devices") || strings.Contains(msg, "device not found"):
		return "No device reachable; check `rogcat devices`"
	case strings.Contains(msg, "unauthorized"):
		return "Accept the USB debugging prompt on the device"
	}
	return ""
}

func hintForCapture(err error) string {
	if errors.Is(err, output.ErrFileExists) {
		return "Pass --overwrite or choose another --output path"
	}
	if h := hintForTooling(err); h != "" {
		return h
	}
	return "Run `rogcat doctor` for diagnostics"
}
