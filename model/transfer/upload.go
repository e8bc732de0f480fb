package transfer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/gistfs/gistfs/model/confirm"
	"github.com/gistfs/gistfs/model/vfs"
	"github.com/gistfs/gistfs/pkg/logger"
)

// UploadFiles copies local files into the given gist. Addresses already
// taken on the remote side go through the shared confirmation session; once
// the session resolves to "no to all" or is cancelled, the files not yet
// confirmed are dropped from the plan entirely, neither uploaded nor
// queued.
func UploadFiles(ctx context.Context, fsys *vfs.FileSystem, src afero.Fs, paths []string, gistID string, session *confirm.Session, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.WithNamespace("transfer")
	}
	report := &Report{}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			log.Info("upload cancelled by user")
			session.Cancel()
		}
		if session.Aborted() {
			for _, left := range paths[i:] {
				report.add(Item{Target: left, Status: StatusSkipped})
			}
			break
		}

		addr, err := vfs.NewAddress(gistID, SanitizeName(filepath.Base(path)))
		if err != nil {
			report.add(Item{Target: path, Status: StatusFailed, Err: err})
			continue
		}
		ok, err := session.Confirm(ctx, addr.String())
		if err != nil {
			report.add(Item{Target: path, Address: addr, Status: StatusFailed, Err: err})
			continue
		}
		if !ok {
			log.Infof("upload of %q skipped by user", path)
			report.add(Item{Target: path, Address: addr, Status: StatusSkipped})
			continue
		}

		data, err := afero.ReadFile(src, path)
		if err != nil {
			report.add(Item{Target: path, Address: addr, Status: StatusFailed,
				Err: fmt.Errorf("could not read %s: %w", path, err)})
			continue
		}
		err = fsys.WriteFile(ctx, addr, data, vfs.WriteOptions{Create: true, Overwrite: true})
		if err != nil {
			report.add(Item{Target: path, Address: addr, Status: StatusFailed, Err: err})
			continue
		}
		report.add(Item{Target: path, Address: addr, Status: StatusWritten})
	}
	return report, report.Err()
}
