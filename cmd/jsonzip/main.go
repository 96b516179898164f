package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lk2023060901/jsonzip-go/internal/cli"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(log.S().Debugf)); err != nil {
		log.S().Warnf("failed to set GOMAXPROCS: %v", err)
	}

	// 收到中断信号后取消 ctx，正在进行的编码/解码以 ErrCanceled 结束，未完成的输出文件会被清理。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "jsonzip:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case merr.IsCanceledOrTimeout(err):
		return 130
	case merr.GetErrorType(err) == merr.InputError:
		return 2
	default:
		return 1
	}
}
