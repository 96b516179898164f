package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

const sample = `{"id": 100, "name": "alice", "tags": ["a", "b"]}`

type CLISuite struct {
	suite.Suite

	dir            string
	stdout, stderr *bytes.Buffer
}

func (s *CLISuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}
	s.T().Setenv("JSONZIP_CONFIG_FILE_PATH", "")
}

func (s *CLISuite) run(ctx context.Context, args ...string) error {
	s.stdout.Reset()
	s.stderr.Reset()
	return Run(ctx, args, s.stdout, s.stderr)
}

func (s *CLISuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *CLISuite) TestVersion() {
	s.Require().NoError(s.run(context.Background(), "--version"))
	s.Contains(s.stdout.String(), "jsonzip v0.1.0")
}

func (s *CLISuite) TestUsageErrors() {
	err := s.run(context.Background())
	s.ErrorIs(err, merr.ErrParameterMissing)
	s.Contains(s.stderr.String(), "Usage: jsonzip")

	err = s.run(context.Background(), "compress", "a.json")
	s.ErrorIs(err, merr.ErrParameterInvalid)

	err = s.run(context.Background(), "--no-such-flag", "encode", "a.json")
	s.ErrorIs(err, merr.ErrParameterInvalid)

	err = s.run(context.Background(), "-a", "lzma", "encode", s.writeFile("a.json", sample))
	s.ErrorIs(err, merr.ErrCompressorNotFound)

	err = s.run(context.Background(), "-l", "ultra", "encode", s.writeFile("a.json", sample))
	s.ErrorIs(err, merr.ErrParameterInvalid)
}

func (s *CLISuite) TestEncodeDefaultAlgorithm() {
	input := s.writeFile("record.json", sample)

	s.Require().NoError(s.run(context.Background(), "encode", input))
	s.FileExists(input + ".br")
	s.Contains(s.stdout.String(), "record.json.br")
}

func (s *CLISuite) TestRoundTrip() {
	input := s.writeFile("record.json", sample)
	out := filepath.Join(s.dir, "out")
	s.Require().NoError(os.Mkdir(out, 0o755))

	s.Require().NoError(s.run(context.Background(), "-a", "zstd", "-l", "smallest", "-o", out, "encode", input))
	encoded := filepath.Join(out, "record.json.zst")
	s.FileExists(encoded)

	// 解码时按扩展名推断算法
	s.Require().NoError(os.Remove(input))
	s.Require().NoError(s.run(context.Background(), "decode", encoded))
	decoded, err := os.ReadFile(filepath.Join(out, "record.json"))
	s.Require().NoError(err)
	s.JSONEq(sample, string(decoded))
}

func (s *CLISuite) TestDecodePretty() {
	input := s.writeFile("record.json", sample)
	s.Require().NoError(s.run(context.Background(), "-a", "gzip", "encode", input))

	s.Require().NoError(s.run(context.Background(), "--pretty", "-o", s.T().TempDir(), "decode", input+".gz"))
	s.Contains(s.stdout.String(), "record.json.gz -> ")
}

func (s *CLISuite) TestDecodeUnknownExtension() {
	input := s.writeFile("record.json", sample)
	s.Require().NoError(s.run(context.Background(), "-a", "snappy", "encode", input))
	s.Require().NoError(os.Rename(input+".sz", filepath.Join(s.dir, "blob")))

	s.Require().NoError(s.run(context.Background(), "-a", "snappy", "decode", filepath.Join(s.dir, "blob")))
	decoded, err := os.ReadFile(filepath.Join(s.dir, "blob.json"))
	s.Require().NoError(err)
	s.JSONEq(sample, string(decoded))
}

func (s *CLISuite) TestBatchWithFailure() {
	bad := s.writeFile("bad.json", `{"id":`)
	good := s.writeFile("good.json", sample)

	err := s.run(context.Background(), "-w", "2", "encode", bad, good)
	s.ErrorIs(err, merr.ErrFormatInvalid)
	s.Contains(err.Error(), "1 of 2 files failed")
	s.Contains(s.stderr.String(), "bad.json")
	s.NoFileExists(bad + ".br")
	s.FileExists(good + ".br")
}

func (s *CLISuite) TestMissingInput() {
	err := s.run(context.Background(), "decode", filepath.Join(s.dir, "missing.json.br"))
	s.ErrorIs(err, merr.ErrIoFailed)
}

func (s *CLISuite) TestCanceled() {
	input := s.writeFile("record.json", sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.run(ctx, "encode", input)
	s.ErrorIs(err, merr.ErrCanceled)
	s.NoFileExists(input + ".br")
}

func (s *CLISuite) TestDecodeReadOnlyOutput() {
	input := s.writeFile("record.json", sample)
	s.Require().NoError(s.run(context.Background(), "-a", "gzip", "encode", input))
	s.Require().NoError(os.WriteFile(input, []byte("keep"), 0o444))

	err := s.run(context.Background(), "decode", input+".gz")
	s.ErrorIs(err, merr.ErrIoFailed)
	s.Contains(s.stderr.String(), "record.json.gz")

	data, err := os.ReadFile(input)
	s.Require().NoError(err)
	s.Equal("keep", string(data))
	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *CLISuite) TestDecodeOverwriteKeepsMode() {
	input := s.writeFile("record.json", sample)
	s.Require().NoError(s.run(context.Background(), "-a", "zstd", "encode", input))
	s.Require().NoError(os.WriteFile(input, []byte("stale"), 0o600))
	s.Require().NoError(os.Chmod(input, 0o600))

	s.Require().NoError(s.run(context.Background(), "--pretty", "decode", input+".zst"))
	data, err := os.ReadFile(input)
	s.Require().NoError(err)
	s.JSONEq(sample, string(data))
	info, err := os.Stat(input)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), info.Mode().Perm())
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLISuite))
}
