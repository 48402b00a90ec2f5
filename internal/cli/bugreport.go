package cli

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vburojevic/rogcat/internal/output"
)

// BugreportCmd captures `adb bugreport` into a file
type BugreportCmd struct {
	File      string `arg:"" optional:"" help:"Output file (default: <date>-bugreport.txt, or .zip with --zip)"`
	Zip       bool   `short:"z" help:"Write a zip archive"`
	Overwrite bool   `help:"Overwrite the report file if present"`
}

// Run executes the bugreport command
func (c *BugreportCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := c.File
	if path == "" {
		path = defaultBugreportName(time.Now(), c.Zip)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if c.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return outputErrorCommon(globals, "FILE_EXISTS", fmt.Sprintf("%s already exists", path), "Pass --overwrite or choose another file")
		}
		return outputErrorCommon(globals, "OUTPUT_FAILED", err.Error())
	}

	emitInfo(globals, nil, "Writing bugreport to "+path)
	started := time.Now()
	if err := c.write(ctx, globals, f, path); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return outputErrorCommon(globals, "BUGREPORT_FAILED", err.Error(), hintForTooling(err))
	}
	if err := f.Close(); err != nil {
		return outputErrorCommon(globals, "OUTPUT_FAILED", err.Error())
	}

	globals.Debug("Bugreport took %s", time.Since(started).Round(time.Millisecond))
	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Info("Wrote bugreport to "+path, globals.Serial)
	}
	return nil
}

func (c *BugreportCmd) write(ctx context.Context, globals *Globals, f *os.File, path string) error {
	client := globals.Client()
	if !c.Zip {
		return client.Bugreport(ctx, f)
	}

	zw := zip.NewWriter(f)
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     bugreportEntryName(path),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := client.Bugreport(ctx, entry); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

func defaultBugreportName(now time.Time, zipped bool) string {
	name := now.Format("2006-01-02-15-04-05") + "-bugreport"
	if zipped {
		return name + ".zip"
	}
	return name + ".txt"
}

// bugreportEntryName names the report inside the archive after the archive
func bugreportEntryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}
