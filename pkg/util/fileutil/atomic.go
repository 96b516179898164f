// Package fileutil 提供可取消的 I/O 包装与原子文件写入。
package fileutil

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// DefaultFileMode 为新建文件的权限，CreateTemp 默认创建的是 0600。
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic 把 r 的全部内容写入 path，文件已存在时整体覆盖。
//
// 数据先写入目标目录下的临时文件，fsync 后 rename 到目标，
// 失败或 ctx 取消时删除临时文件，目标保持原样。
//
// path 为符号链接时写入链接指向的文件，链接本身保留。
// 目标已存在时保留其权限，且必须是可写的普通文件，否则返回 merr.ErrIoFailed。
// ctx 结束时返回 merr.ErrCanceled。
func WriteAtomic(ctx context.Context, path string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return merr.WrapErrCanceled(err, "write output")
	}
	target, perm, err := resolveTarget(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return merr.WrapErrIoFailed(path, err, "create output")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(NewContextWriter(ctx, tmp), NewContextReader(ctx, r)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return merr.WrapErrCanceled(ctxErr, "write output")
		}
		return merr.WrapErrIoFailed(path, err, "write output")
	}
	if err := tmp.Sync(); err != nil {
		return merr.WrapErrIoFailed(path, err, "sync output")
	}
	if err := tmp.Close(); err != nil {
		return merr.WrapErrIoFailed(path, err, "close output")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return merr.WrapErrIoFailed(path, err, "chmod output")
	}
	if err := ctx.Err(); err != nil {
		return merr.WrapErrCanceled(err, "rename output")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return merr.WrapErrIoFailed(path, err, "rename output")
	}
	committed = true
	return nil
}

// resolveTarget 返回实际被替换的文件路径及其最终权限。
//
// 悬空的符号链接、目录等非普通文件、以及 owner 写权限位未设置的文件都会被拒绝；
// 以 root 运行时 open 不受权限位限制，因此权限位单独检查。
func resolveTarget(path string) (string, os.FileMode, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, DefaultFileMode, nil
	}
	if err != nil {
		return "", 0, merr.WrapErrIoFailed(path, err, "stat output")
	}

	target := path
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err = filepath.EvalSymlinks(path); err != nil {
			return "", 0, merr.WrapErrIoFailed(path, err, "resolve output")
		}
		if info, err = os.Stat(target); err != nil {
			return "", 0, merr.WrapErrIoFailed(target, err, "stat output")
		}
	}

	if !info.Mode().IsRegular() {
		return "", 0, merr.WrapErrIoFailed(target, errors.Newf("%s is not a regular file", info.Mode().Type()), "check output")
	}
	if info.Mode().Perm()&0o200 == 0 {
		return "", 0, merr.WrapErrIoFailed(target, fs.ErrPermission, "output is read-only")
	}
	f, err := os.OpenFile(target, os.O_WRONLY, 0)
	if err != nil {
		return "", 0, merr.WrapErrIoFailed(target, err, "check output")
	}
	_ = f.Close()
	return target, info.Mode().Perm(), nil
}
