package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoinPath(t *testing.T) {
	sep := string(OSPathSeparator)
	if got, want := JoinPath("a", "b", "c"), "a"+sep+"b"+sep+"c"; got != want {
		t.Errorf("JoinPath: expected %q, got %q", want, got)
	}
	if got, want := JoinPath(sep, "usr"), sep+"usr"; got != want {
		t.Errorf("JoinPath: expected %q, got %q", want, got)
	}
}

func TestMakeFilename(t *testing.T) {
	tmpDir := t.TempDir()
	dir := MakeDirectory(tmpDir)
	if dir.String() != tmpDir {
		t.Errorf("MakeDirectory: expected %s, got %v", tmpDir, dir.String())
	}
	file := MakeFilename(filepath.Join(tmpDir, "foo.txt"))
	if file.String() != filepath.Join(tmpDir, "foo.txt") {
		t.Errorf("MakeFilename: expected %s, got %v", filepath.Join(tmpDir, "foo.txt"), file.String())
	}
	if !file.Dirname.Equals(dir) {
		t.Errorf("MakeFilename: expected dirname %v, got %v", dir, file.Dirname)
	}
}

func TestFilenameExt(t *testing.T) {
	f := MakeDirectory(t.TempDir()).File("ipq.cc")
	if f.Ext() != ".cc" {
		t.Errorf("Ext: expected .cc, got %q", f.Ext())
	}
	if f.TrimExt() != "ipq" {
		t.Errorf("TrimExt: expected ipq, got %q", f.TrimExt())
	}
	if got := f.ReplaceExt(".o").Basename; got != "ipq.o" {
		t.Errorf("ReplaceExt: expected ipq.o, got %q", got)
	}
}

func TestDirectoryParent(t *testing.T) {
	sep := string(OSPathSeparator)
	dir := MakeDirectory(filepath.Join(sep, "usr", "lib"))
	if got := dir.Parent().Basename(); got != "usr" {
		t.Errorf("Parent: expected usr, got %q", got)
	}
	if got := dir.Parent().Parent().Parent(); got != dir.Parent().Parent() {
		t.Errorf("Parent: the root directory should be its own parent, got %q", got)
	}
	if got := dir.Folder("llvm").Relative(dir); got != "llvm" {
		t.Errorf("Relative: expected llvm, got %q", got)
	}
}

func TestDirectorySetRelative(t *testing.T) {
	var dir Directory
	if err := dir.Set("some/target"); err != nil {
		t.Fatal(err)
	}
	if want := UFS.Root.Folder("some", "target"); !dir.Equals(want) {
		t.Errorf("Set: expected %v, got %v", want, dir)
	}
	if err := dir.Set(""); err != nil || dir.Valid() {
		t.Errorf("Set: expected an invalid directory, got %v (%v)", dir, err)
	}
}

func TestUFS_MkdirEx(t *testing.T) {
	dir := MakeDirectory(t.TempDir()).Folder("subdir", "nested")
	if err := UFS.MkdirEx(dir); err != nil {
		t.Fatalf("UFS.MkdirEx: %v", err)
	}
	if !dir.Exists() {
		t.Fatalf("UFS.MkdirEx: expected %v to exist", dir)
	}
	// MkdirEx should not fail if directory already exists
	if err := UFS.MkdirEx(dir); err != nil {
		t.Errorf("UFS.MkdirEx: expected no error, got %v", err)
	}

	file := dir.File("file")
	if err := os.WriteFile(file.String(), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := UFS.MkdirEx(MakeDirectory(file.String())); err == nil {
		t.Errorf("UFS.MkdirEx: expected an error when a file is in the way")
	}
}

func TestUFS_Create_ReadAll(t *testing.T) {
	file := MakeDirectory(t.TempDir()).File("nested", "file.txt")
	content := []byte("hello world")
	err := UFS.CreateBuffered(file, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
	if err != nil {
		t.Fatalf("UFS.CreateBuffered: %v", err)
	}

	raw, err := UFS.ReadAll(file)
	if err != nil {
		t.Fatalf("UFS.ReadAll: %v", err)
	}
	if !bytes.Equal(raw, content) {
		t.Errorf("UFS.ReadAll: expected %q, got %q", content, raw)
	}
}

func TestUFS_SafeCreate(t *testing.T) {
	dir := MakeDirectory(t.TempDir())
	file := dir.File("factors.json")
	if err := os.WriteFile(file.String(), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	err := UFS.SafeCreate(file, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	})
	if err != nil {
		t.Fatalf("UFS.SafeCreate: %v", err)
	}

	raw, _ := os.ReadFile(file.String())
	if string(raw) != "new" {
		t.Errorf("UFS.SafeCreate: expected new content, got %q", raw)
	}
	if _, err := os.Stat(file.ReplaceExt(".json.tmp").String()); !os.IsNotExist(err) {
		t.Errorf("UFS.SafeCreate: temporary file should have been removed")
	}
}

func TestUFS_Remove(t *testing.T) {
	file := MakeDirectory(t.TempDir()).File("missing")
	if err := UFS.Remove(file); err != nil {
		t.Errorf("UFS.Remove: a missing file should not be an error, got %v", err)
	}
}

func TestUFS_Symlink_Readlink(t *testing.T) {
	dir := MakeDirectory(t.TempDir())
	src := dir.File("delineate.c")
	if err := os.WriteFile(src.String(), []byte("int main;"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := dir.File("set", "src", "delineate.c")
	if err := UFS.Symlink(src, dst); err != nil {
		t.Fatalf("UFS.Symlink: %v", err)
	}
	// a second call replaces the existing link
	if err := UFS.Symlink(src, dst); err != nil {
		t.Fatalf("UFS.Symlink: %v", err)
	}

	target, err := UFS.Readlink(dst)
	if err != nil {
		t.Fatalf("UFS.Readlink: %v", err)
	}
	if target != src.String() {
		t.Errorf("UFS.Readlink: expected %q, got %q", src, target)
	}
}

func TestUFS_Resolve(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := MakeDirectory(tmp)
	realDir := dir.Folder("realDir")
	if err := UFS.MkdirEx(realDir); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(realDir.String(), dir.Folder("alias").String()); err != nil {
		t.Fatal(err)
	}

	resolved, err := UFS.Resolve(dir.Folder("alias"))
	if err != nil {
		t.Fatalf("UFS.Resolve: %v", err)
	}
	if !resolved.Equals(realDir) {
		t.Errorf("UFS.Resolve: expected %v, got %v", realDir, resolved)
	}
}

func TestDirectoryFiles(t *testing.T) {
	dir := MakeDirectory(t.TempDir())
	for _, name := range []string{"json.c", "ipq.cc", "delineate.c"} {
		if err := os.WriteFile(dir.File(name).String(), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := UFS.MkdirEx(dir.Folder("subdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dir.File("json.c").String(), dir.File("link.c").String()); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dir.File("missing.c").String(), dir.File("broken.c").String()); err != nil {
		t.Fatal(err)
	}

	files, err := dir.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	got := make([]string, len(files))
	for i, f := range files {
		got[i] = f.Basename
	}
	if diff := cmp.Diff([]string{"delineate.c", "ipq.cc", "json.c", "link.c"}, got); diff != "" {
		t.Errorf("Files: mismatch (-want +got):\n%s", diff)
	}
}

func TestFileInfoTimes(t *testing.T) {
	file := MakeDirectory(t.TempDir()).File("file")
	if err := os.WriteFile(file.String(), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := file.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if GetModificationTime(info).IsZero() {
		t.Errorf("GetModificationTime: expected a valid time")
	}
	if GetModificationTime(info).Before(info.ModTime().Add(-1e9)) {
		t.Errorf("GetModificationTime: expected %v, got %v", info.ModTime(), GetModificationTime(info))
	}

	if _, err := file.Dirname.File("missing").Info(); err == nil {
		t.Errorf("Info: expected an error for a missing file")
	}
	if file.Dirname.File("missing").Exists() {
		t.Errorf("Exists: missing file should not exist")
	}
}

func TestMountCallerFile(t *testing.T) {
	saved := UFS
	defer func() { UFS = saved }()

	root := MakeDirectory(t.TempDir())
	caller := root.Folder("src").File("Build.go")
	UFS = UFSFrontEnd{Executable: root.Folder("bin").File("fault-llvm")}
	UFS.MountRootDirectory(root.Folder("cwd"))

	UFS.MountCallerFile(caller)
	if want := root.Folder("cwd", "tools"); !UFS.Tools.Equals(want) {
		t.Errorf("MountCallerFile: without any tools directory, expected %v, got %v", want, UFS.Tools)
	}
	if !UFS.Caller.Equals(caller) {
		t.Errorf("MountCallerFile: expected caller %v, got %v", caller, UFS.Caller)
	}

	for _, tools := range []Directory{
		root.Folder("cwd", "tools"),
		root.Folder("bin", "tools"),
		root.Folder("src", "tools"),
	} {
		if err := UFS.MkdirEx(tools); err != nil {
			t.Fatal(err)
		}
		UFS.MountCallerFile(caller)
		if !UFS.Tools.Equals(tools) {
			t.Errorf("MountCallerFile: expected %v, got %v", tools, UFS.Tools)
		}
	}
}
