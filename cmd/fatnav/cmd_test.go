package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const imageSize = 10 * 1024 * 1024

var helloContent = []byte(strings.Repeat("hello from the image\n", 40))

// testImage creates /disk.img with the directories /DOCS, /DOCS/NOTES and /lower
// and the file /DOCS/HELLO.TXT.
func testImage(t *testing.T) afero.Fs {
	t.Helper()

	memFs := afero.NewMemMapFs()
	f, err := memFs.Create("/disk.img")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(imageSize))

	fs, err := fat32.Create(f, imageSize, 0, 512, "FATNAV")
	require.NoError(t, err)
	require.NoError(t, fs.Mkdir("/DOCS/NOTES"))
	require.NoError(t, fs.Mkdir("/lower"))

	hello, err := fs.OpenFile("/DOCS/HELLO.TXT", os.O_CREATE|os.O_RDWR)
	require.NoError(t, err)
	_, err = hello.Write(helloContent)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	return memFs
}

// execute runs the fatnav command line with args and returns stdout and stderr.
func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newCmd(fs)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBpb(t *testing.T) {
	stdout, _, err := execute(t, testImage(t), "", "bpb", "/disk.img")
	require.NoError(t, err)

	require.Contains(t, stdout, "BPB_BytsPerSec: 512 (0x200)\n")
	require.Contains(t, stdout, "BPB_SecPerClus: 1 (0x1)\n")
	require.Contains(t, stdout, "BPB_RsvdSecCnt: 32 (0x20)\n")
	require.Contains(t, stdout, "BPB_NumFATs:    2 (0x2)\n")
	require.Contains(t, stdout, "BPB_RootClus:   2 (0x2)\n")
}

func TestBpb_Strict(t *testing.T) {
	_, _, err := execute(t, testImage(t), "", "--strict", "bpb", "/disk.img")
	require.NoError(t, err)
}

func TestLs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "root",
			args: []string{"ls", "/disk.img"},
			want: "DOCS\nLOWER\n",
		},
		{
			name: "root with slash",
			args: []string{"ls", "/disk.img", "/"},
			want: "DOCS\nLOWER\n",
		},
		{
			name: "subdirectory",
			args: []string{"ls", "/disk.img", "docs"},
			want: ".\n..\nNOTES\n",
		},
		{
			name: "nested",
			args: []string{"ls", "/disk.img", "/DOCS/NOTES"},
			want: ".\n..\n",
		},
		{
			name: "back up",
			args: []string{"ls", "/disk.img", "docs/notes/../.."},
			want: "DOCS\nLOWER\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, testImage(t), "", tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, stdout)
		})
	}
}

func TestLs_Long(t *testing.T) {
	stdout, _, err := execute(t, testImage(t), "", "ls", "-l", "/disk.img")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "drwxrwxrwx"), lines[0])
	require.True(t, strings.HasSuffix(lines[0], " DOCS"), lines[0])
	require.True(t, strings.HasSuffix(lines[1], " LOWER"), lines[1])
}

func TestLs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing image",
			args: []string{"ls", "/missing.img"},
			want: "could not open image",
		},
		{
			name: "missing directory",
			args: []string{"ls", "/disk.img", "music"},
			want: "directory not found",
		},
		{
			name: "file",
			args: []string{"ls", "/disk.img", "docs/hello.txt"},
			want: "not a directory",
		},
		{
			name: "long name",
			args: []string{"ls", "/disk.img", "documents"},
			want: "name does not fit into 8.3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, testImage(t), "", tt.args...)
			require.Error(t, err)
			require.Equal(t, tt.want, err.Error())
			require.Empty(t, stdout)
		})
	}
}

func TestCat(t *testing.T) {
	stdout, _, err := execute(t, testImage(t), "", "cat", "/disk.img", "/docs/hello.txt")
	require.NoError(t, err)
	require.Equal(t, string(helloContent), stdout)

	_, _, err = execute(t, testImage(t), "", "cat", "/disk.img", "docs")
	require.Error(t, err)
	require.Equal(t, "is a directory", err.Error())

	_, _, err = execute(t, testImage(t), "", "cat", "/disk.img", "docs/missing.txt")
	require.Error(t, err)
	require.Equal(t, "file not found", err.Error())
}

func TestStat(t *testing.T) {
	stdout, _, err := execute(t, testImage(t), "", "stat", "/disk.img", "DOCS/HELLO.TXT")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(stdout, " HELLO.TXT\n"), stdout)
	require.Contains(t, stdout, " 840 ")
}

func TestStat_Paths(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantName string
		wantErr  string
	}{
		{name: "trailing slash", path: "docs/", wantName: " DOCS\n"},
		{name: "nested directory", path: "/docs/notes/", wantName: " NOTES\n"},
		{name: "root", path: "/", wantErr: "the root directory has no directory entry"},
		{name: "root with many slashes", path: "//", wantErr: "the root directory has no directory entry"},
		{name: "missing", path: "docs/missing.txt", wantErr: "file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, testImage(t), "", "stat", "/disk.img", tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err.Error())
				require.Empty(t, stdout)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasSuffix(stdout, tt.wantName), stdout)
		})
	}
}

func TestDebug(t *testing.T) {
	_, stderr, err := execute(t, testImage(t), "", "--debug", "ls", "/disk.img", "music")
	require.Error(t, err)
	require.Contains(t, stderr, "opened image")
	require.Contains(t, stderr, "command failed")
}
