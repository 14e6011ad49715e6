// Package bulkio performs bulk file copies and downloads with progress
// feedback. Batch operations attempt every item and aggregate failures into a
// report instead of aborting on the first error.
package bulkio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"launchpad/internal/log"
	"launchpad/pkg/types"
)

const copyBufferSize = 64 * 1024

// Progress receives running totals while an operation is in flight. The label
// names the item currently being processed.
type Progress func(done, total int64, label string)

// Engine runs bulk I/O operations. Workers bounds the number of files copied
// concurrently within one directory batch.
type Engine struct {
	Workers  int
	Client   *http.Client
	progress Progress
}

// New creates an Engine with sensible defaults.
func New() *Engine {
	return &Engine{
		Workers: 4,
		Client:  http.DefaultClient,
	}
}

// OnProgress installs a progress callback. Pass nil to disable.
func (e *Engine) OnProgress(fn Progress) {
	e.progress = fn
}

func (e *Engine) report(done, total int64, label string) {
	if e.progress != nil {
		e.progress(done, total, label)
	}
}

// CopyFile copies a single file, creating the destination directory. When
// dst names an existing directory the source file name is appended.
func (e *Engine) CopyFile(ctx context.Context, src, dst string) (types.Report, error) {
	var report types.Report

	info, err := os.Stat(src)
	if err != nil {
		report.Fail(src, err)
		return report, err
	}
	if info.IsDir() {
		err := fmt.Errorf("%s is a directory, not a file", src)
		report.Fail(src, err)
		return report, err
	}

	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	if err := e.copyOne(ctx, src, dst, info.Size()); err != nil {
		report.Fail(src, err)
		return report, err
	}

	report.Files = 1
	report.Bytes = info.Size()
	return report, nil
}

func (e *Engine) copyOne(ctx context.Context, src, dst string, size int64) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	var done int64
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			os.Remove(dst)
			return err
		}

		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				return writeErr
			}
			done += int64(n)
			e.report(done, size, filepath.Base(src))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			return readErr
		}
	}

	return out.Close()
}

// CopyDir recursively copies a directory tree. Every file is attempted;
// failures are collected in the report rather than aborting the batch. The
// returned error is non-nil only when the batch could not run at all.
func (e *Engine) CopyDir(ctx context.Context, src, dst string) (types.Report, error) {
	var report types.Report

	srcInfo, err := os.Stat(src)
	if err != nil {
		report.Fail(src, err)
		return report, err
	}
	if !srcInfo.IsDir() {
		err := fmt.Errorf("%s is not a directory", src)
		report.Fail(src, err)
		return report, err
	}

	type job struct {
		src, dst string
		size     int64
	}
	var jobs []job

	var mu sync.Mutex
	walkErr := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			report.Fail(path, err)
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			report.Fail(path, err)
			return nil
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				report.Fail(path, err)
				return filepath.SkipDir
			}
			report.Dirs++
			return nil
		}
		jobs = append(jobs, job{src: path, dst: target, size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return report, walkErr
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				err := e.copyOne(ctx, j.src, j.dst, j.size)
				mu.Lock()
				if err != nil {
					report.Fail(j.src, err)
				} else {
					report.Files++
					report.Bytes += j.size
				}
				mu.Unlock()
			}
		}()
	}

	for _, j := range jobs {
		if ctx.Err() != nil {
			// Remaining files are recorded as not attempted so partial
			// results are never silently dropped.
			mu.Lock()
			report.Fail(j.src, ctx.Err())
			mu.Unlock()
			continue
		}
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()

	if !report.OK() {
		log.Warn("bulk copy %s: %d of %d files failed", src, len(report.Failures), len(jobs))
	}
	return report, ctx.Err()
}

// Download fetches a URL into the destination file, reporting progress when
// the server announces a length.
func (e *Engine) Download(ctx context.Context, url, dst string) (types.Report, error) {
	var report types.Report

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		report.Fail(url, err)
		return report, err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		report.Fail(url, err)
		return report, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		report.Fail(url, err)
		return report, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		report.Fail(url, err)
		return report, err
	}
	out, err := os.Create(dst)
	if err != nil {
		report.Fail(url, err)
		return report, err
	}

	total := resp.ContentLength
	var done int64
	buf := make([]byte, copyBufferSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				report.Fail(url, writeErr)
				return report, writeErr
			}
			done += int64(n)
			e.report(done, total, filepath.Base(dst))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(dst)
			report.Fail(url, readErr)
			return report, readErr
		}
	}

	if err := out.Close(); err != nil {
		report.Fail(url, err)
		return report, err
	}
	report.Files = 1
	report.Bytes = done
	return report, nil
}
