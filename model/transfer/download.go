// Package transfer implements the batch operations moving content between
// the real local disk and the virtual file system. A whole batch shares one
// overwrite confirmation session, so a "yes to all" answered on the first
// conflict applies to every remaining item, and a cancellation observed
// between items stops the rest of the batch without rolling back what was
// already transferred.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/gistfs/gistfs/model/confirm"
	"github.com/gistfs/gistfs/model/vfs"
	"github.com/gistfs/gistfs/pkg/logger"
)

const dirPerm = 0o755
const filePerm = 0o644

// DiskExists returns the stat-equivalent probe of the real destination file
// system, for building a download confirmation session.
func DiskExists(dest afero.Fs) confirm.ExistsFunc {
	return func(ctx context.Context, target string) (bool, error) {
		return afero.Exists(dest, target)
	}
}

// DownloadFiles copies the given file addresses into destDir on the dest
// file system. Cancellation is cooperative: it is observed between items,
// and an in-flight fetch of the current item is allowed to finish.
func DownloadFiles(ctx context.Context, fsys *vfs.FileSystem, dest afero.Fs, destDir string, addrs []vfs.Address, session *confirm.Session, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.WithNamespace("transfer")
	}
	report := &Report{}
	for i, addr := range addrs {
		if err := ctx.Err(); err != nil {
			log.Info("download cancelled by user")
			session.Cancel()
			skipRemaining(report, destDir, addrs[i:])
			break
		}
		if err := dest.MkdirAll(destDir, dirPerm); err != nil {
			return report, err
		}
		target := filepath.Join(destDir, SanitizeName(addr.Name))
		downloadOne(ctx, fsys, dest, target, addr, session, report, log)
	}
	return report, report.Err()
}

// DownloadGists copies whole gists into destDir, one subfolder per gist
// named after its sanitized description. All gists of the batch share the
// given confirmation session.
func DownloadGists(ctx context.Context, fsys *vfs.FileSystem, dest afero.Fs, destDir string, ids []string, session *confirm.Session, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.WithNamespace("transfer")
	}
	report := &Report{}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Info("download cancelled by user")
			session.Cancel()
			for _, left := range ids[i:] {
				report.add(Item{Target: left, Status: StatusSkipped})
			}
			break
		}
		// listing through the adapter seeds the store with the record
		infos, err := fsys.ReadDir(ctx, vfs.Address{GistID: id})
		if err != nil {
			report.add(Item{Target: id, Status: StatusFailed, Err: err})
			continue
		}
		folder := id
		if rec, ok := fsys.Store().Find(id); ok && rec.Gist.Description != "" {
			folder = SanitizeName(rec.Gist.Description)
		}
		subdir := filepath.Join(destDir, folder)
		if err := dest.MkdirAll(subdir, dirPerm); err != nil {
			return report, err
		}
		for i, info := range infos {
			if err := ctx.Err(); err != nil {
				log.Info("download cancelled by user")
				session.Cancel()
				addrs := make([]vfs.Address, 0, len(infos)-i)
				for _, left := range infos[i:] {
					addrs = append(addrs, vfs.Address{GistID: id, Name: left.Name})
				}
				skipRemaining(report, subdir, addrs)
				return report, report.Err()
			}
			addr := vfs.Address{GistID: id, Name: info.Name}
			target := filepath.Join(subdir, SanitizeName(info.Name))
			downloadOne(ctx, fsys, dest, target, addr, session, report, log)
		}
	}
	return report, report.Err()
}

func downloadOne(ctx context.Context, fsys *vfs.FileSystem, dest afero.Fs, target string, addr vfs.Address, session *confirm.Session, report *Report, log logger.Logger) {
	ok, err := session.Confirm(ctx, target)
	if err != nil {
		report.add(Item{Target: target, Address: addr, Status: StatusFailed, Err: err})
		return
	}
	if !ok {
		log.Infof("download of %q skipped by user", target)
		report.add(Item{Target: target, Address: addr, Status: StatusSkipped})
		return
	}
	data, err := fsys.ReadFile(ctx, addr)
	if err != nil {
		report.add(Item{Target: target, Address: addr, Status: StatusFailed,
			Err: fmt.Errorf("could not download %s: %w", addr, err)})
		return
	}
	if err := afero.WriteFile(dest, target, data, os.FileMode(filePerm)); err != nil {
		report.add(Item{Target: target, Address: addr, Status: StatusFailed, Err: err})
		return
	}
	report.add(Item{Target: target, Address: addr, Status: StatusWritten})
}

func skipRemaining(report *Report, destDir string, addrs []vfs.Address) {
	for _, addr := range addrs {
		target := filepath.Join(destDir, SanitizeName(addr.Name))
		report.add(Item{Target: target, Address: addr, Status: StatusSkipped})
	}
}
