// Package cli 实现 jsonzip 命令行：批量把 JSON 文件编码为压缩文件，或把压缩文件解码回 JSON。
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonzip-go/application"
	"github.com/lk2023060901/jsonzip-go/internal/json"
	"github.com/lk2023060901/jsonzip-go/pkg/codec"
	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/util/conc"
	"github.com/lk2023060901/jsonzip-go/pkg/util/fileutil"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// Version 可在构建时通过 -ldflags "-X .../internal/cli.Version=x.y.z" 覆盖。
var Version = "0.1.0"

const (
	cmdEncode = "encode"
	cmdDecode = "decode"

	jsonExt = ".json"

	// 进度日志按分组限流，文件很多时每秒最多输出一条
	progressRateGroup  = "cli.progress"
	progressCredit     = 1.0
	progressMaxBalance = 5.0
)

type options struct {
	config    string
	algorithm string
	level     string
	outputDir string
	workers   int
	pretty    bool
	version   bool
}

// result 为单个文件的处理结果。
type result struct {
	input  string
	output string
}

// Run 执行一次命令行调用，args 不包含程序名。
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts := &options{}
	fs := pflag.NewFlagSet("jsonzip", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.config, "config", "", "配置文件路径（默认 ./jsonzip.yaml 或 $JSONZIP_CONFIG_FILE_PATH）")
	fs.StringVarP(&opts.algorithm, "algorithm", "a", "", "压缩算法："+strings.Join(compressor.Names(), "|"))
	fs.StringVarP(&opts.level, "level", "l", "", "压缩级别：optimal|fastest|none|smallest")
	fs.StringVarP(&opts.outputDir, "output", "o", "", "输出目录（默认与输入文件同目录）")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "并发处理的文件数（默认取配置 workers）")
	fs.BoolVar(&opts.pretty, "pretty", false, "decode 时缩进输出 JSON")
	fs.BoolVarP(&opts.version, "version", "v", false, "打印版本号")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jsonzip [flags] <encode|decode> <file>...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return merr.WrapErrParameterInvalidMsg("%s", err.Error())
	}

	if opts.version {
		fmt.Fprintln(stdout, "jsonzip", versionString())
		return nil
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return merr.WrapErrParameterMissing("<encode|decode> <file>...")
	}
	command, files := rest[0], rest[1:]
	if command != cmdEncode && command != cmdDecode {
		fs.Usage()
		return merr.WrapErrParameterInvalid("encode|decode", command, "command")
	}

	app := application.New()
	if err := app.Run(args); err != nil {
		return err
	}

	callOpts, err := opts.callOptions()
	if err != nil {
		return err
	}
	workers := opts.workers
	if workers <= 0 {
		workers = app.Config().Workers
	}

	r := &runner{
		codec:    app.Codec(),
		opts:     opts,
		callOpts: callOpts,
		log:      app.Logger("cli").WithRateGroup(progressRateGroup, progressCredit, progressMaxBalance),
		total:    len(files),
	}

	// 单个文件的 panic 只让该文件失败，不影响整个批次
	pool := conc.NewPool[result](workers,
		conc.WithConcealPanic(true),
		conc.WithLogger(r.log),
		conc.WithPreHandler(func() { r.started.Inc() }),
	)
	defer pool.Release()

	futures := make([]*conc.Future[result], 0, len(files))
	for _, file := range files {
		futures = append(futures, pool.Submit(func() (result, error) {
			if command == cmdEncode {
				return r.encode(ctx, file)
			}
			return r.decode(ctx, file)
		}))
	}

	// 全部任务结束后统一输出，失败项同时写入 stderr。
	failed := 0
	for i, f := range futures {
		res, err := f.Await()
		if err != nil {
			failed++
			if merr.IsRetryableErr(err) {
				fmt.Fprintf(stderr, "%s: %v (retriable)\n", files[i], err)
			} else {
				fmt.Fprintf(stderr, "%s: %v\n", files[i], err)
			}
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s\n", res.input, res.output)
	}
	if err := conc.AwaitAll(futures...); err != nil {
		return errors.Wrapf(err, "%d of %d files failed", failed, len(files))
	}
	return nil
}

func (o *options) callOptions() ([]codec.CallOption, error) {
	var opts []codec.CallOption
	if o.algorithm != "" {
		comp, err := compressor.Lookup(o.algorithm)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithCompressor(comp))
	}
	if o.level != "" {
		level, err := compressor.ParseLevel(o.level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codec.WithLevel(level))
	}
	return opts, nil
}

type runner struct {
	codec    *codec.Codec
	opts     *options
	callOpts []codec.CallOption
	log      *log.MLogger

	total   int
	started atomic.Int32
}

// encode 把 JSON 文件压缩为 <文件名><压缩扩展名>。
func (r *runner) encode(ctx context.Context, input string) (result, error) {
	res := result{input: input}
	data, err := os.ReadFile(input)
	if err != nil {
		return res, merr.WrapErrIoFailed(input, err, "read input")
	}
	if !json.Valid(data) {
		return res, merr.WrapErrFormatInvalid("read input", nil, input)
	}

	comp := r.codec.Compressor()
	if r.opts.algorithm != "" {
		// callOptions 已校验过名称
		comp, _ = compressor.Lookup(r.opts.algorithm)
	}
	res.output = r.outputPath(input, filepath.Base(input)+compressor.Extension(comp))

	if err := r.codec.EncodeFile(ctx, json.RawMessage(data), res.output, r.callOpts...); err != nil {
		return res, err
	}
	r.progress("file encoded", res)
	return res, nil
}

// decode 把压缩文件解码为 JSON。
//
// 未指定 --algorithm 时按扩展名推断压缩算法，推断不出时使用配置中的默认算法。
func (r *runner) decode(ctx context.Context, input string) (result, error) {
	res := result{input: input}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	opts := r.callOpts
	if comp, ok := compressor.LookupByExtension(ext); ok {
		base = strings.TrimSuffix(base, ext)
		if r.opts.algorithm == "" {
			opts = append([]codec.CallOption{codec.WithDecompressor(comp)}, opts...)
		}
	}
	if filepath.Ext(base) != jsonExt {
		base += jsonExt
	}
	res.output = r.outputPath(input, base)

	var raw json.RawMessage
	if err := r.codec.DecodeFile(ctx, input, &raw, opts...); err != nil {
		return res, err
	}

	data := []byte(raw)
	if r.opts.pretty {
		indented, err := json.MarshalIndent(raw, "", "  ")
		if err != nil {
			return res, merr.WrapErrFormatInvalid("indent", err)
		}
		data = append(indented, '\n')
	}
	if err := fileutil.WriteAtomic(ctx, res.output, bytes.NewReader(data)); err != nil {
		return res, err
	}
	r.progress("file decoded", res)
	return res, nil
}

func (r *runner) progress(msg string, res result) {
	r.log.RatedInfo(1, msg,
		log.FieldPath(res.input),
		zap.String("output", res.output),
		zap.Int32("started", r.started.Load()),
		zap.Int("total", r.total))
}

func (r *runner) outputPath(input, name string) string {
	dir := r.opts.outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

func versionString() string {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return Version
	}
	return "v" + v.String()
}
