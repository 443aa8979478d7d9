package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogUFS = base.NewLogCategory("UFS")

/***************************************
 * Path to string
 ***************************************/

const OSPathSeparator = os.PathSeparator

func JoinPath(in string, args ...string) string {
	base.Assert(func() bool { return len(in) > 0 })
	sb := strings.Builder{}
	capacity := len(in)
	for _, it := range args {
		base.Assert(func() bool { return len(it) > 0 })
		capacity += len(it) + 1
	}
	sb.Grow(capacity)
	sb.WriteString(in)
	trailing := os.IsPathSeparator(in[len(in)-1])
	for _, it := range args {
		if !trailing {
			sb.WriteRune(OSPathSeparator)
		}
		sb.WriteString(it)
		trailing = os.IsPathSeparator(it[len(it)-1])
	}
	return sb.String()
}

func CleanPath(in string) string {
	in = filepath.Clean(in)
	if cleaned, err := filepath.Abs(in); err == nil {
		in = cleaned
	} else {
		base.LogPanicErr(LogUFS, err)
	}
	return in
}

func lastIndexOfPathSeparator(in string) (int, bool) {
	for i := len(in) - 1; i >= 0; i-- {
		if os.IsPathSeparator(in[i]) {
			return i, true
		}
	}
	return len(in), false
}

/***************************************
 * Directory
 ***************************************/

type Directory struct {
	Path string
}

func MakeDirectory(str string) Directory {
	return Directory{Path: CleanPath(str)}
}
func (d Directory) Valid() bool { return len(d.Path) > 0 }
func (d Directory) Basename() string {
	if i, ok := lastIndexOfPathSeparator(d.Path); ok {
		return d.Path[i+1:]
	}
	return d.Path
}
func (d Directory) Parent() Directory {
	if i, ok := lastIndexOfPathSeparator(d.Path); ok {
		if i == 0 {
			return Directory{Path: d.Path[:1]}
		}
		return Directory{Path: d.Path[:i]}
	}
	base.UnexpectedValue(d)
	return Directory{}
}
func (d Directory) Folder(name ...string) Directory {
	if len(name) == 0 {
		return d
	}
	return Directory{Path: JoinPath(d.Path, name...)}
}
func (d Directory) File(name ...string) Filename {
	base.Assert(func() bool { return len(name) > 0 })
	return Filename{
		Dirname:  d.Folder(name[:len(name)-1]...),
		Basename: name[len(name)-1]}
}
func (d Directory) Relative(to Directory) string {
	if path, err := filepath.Rel(to.String(), d.String()); err == nil {
		return path
	}
	return d.String()
}
func (d Directory) Equals(o Directory) bool {
	return d == o
}
func (d Directory) Compare(o Directory) int {
	return strings.Compare(d.Path, o.Path)
}
func (d Directory) String() string {
	return d.Path
}

/***************************************
 * Filename
 ***************************************/

type Filename struct {
	Dirname  Directory
	Basename string
}

func MakeFilename(str string) Filename {
	str = CleanPath(str)
	dirname, basename := filepath.Split(str)
	if len(dirname) > 1 {
		// trim ending path separator
		dirname = dirname[:len(dirname)-1]
	}
	return Filename{
		Basename: basename,
		Dirname:  Directory{Path: dirname},
	}
}

func (f Filename) Valid() bool { return len(f.Basename) > 0 }
func (f Filename) Ext() string {
	return path.Ext(f.Basename)
}
func (f Filename) TrimExt() string {
	return strings.TrimSuffix(f.Basename, f.Ext())
}
func (f Filename) ReplaceExt(ext string) Filename {
	return Filename{
		Basename: f.TrimExt() + ext,
		Dirname:  f.Dirname,
	}
}
func (f Filename) Relative(to Directory) string {
	if path, err := filepath.Rel(to.String(), f.Dirname.String()); err == nil {
		return filepath.Join(path, f.Basename)
	}
	return f.String()
}
func (f Filename) Equals(o Filename) bool {
	return (f.Basename == o.Basename && f.Dirname.Equals(o.Dirname))
}
func (f Filename) Compare(o Filename) int {
	if c := f.Dirname.Compare(o.Dirname); c != 0 {
		return c
	}
	return strings.Compare(f.Basename, o.Basename)
}
func (f Filename) String() string {
	if len(f.Dirname.Path) > 0 {
		return JoinPath(f.Dirname.Path, f.Basename)
	}
	return f.Basename
}

/***************************************
 * flag.Value interface
 ***************************************/

func (d *Directory) Set(str string) error {
	if str != "" {
		if !filepath.IsAbs(str) {
			str = filepath.Join(UFS.Root.String(), str)
		}
		*d = MakeDirectory(str)
	} else {
		*d = Directory{}
	}
	return nil
}
func (f *Filename) Set(str string) error {
	if str != "" {
		if !filepath.IsAbs(str) {
			str = filepath.Join(UFS.Root.String(), str)
		}
		*f = MakeFilename(str)
	} else {
		*f = Filename{}
	}
	return nil
}

func (x Filename) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *Filename) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}
func (x Directory) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *Directory) UnmarshalText(data []byte) error {
	return x.Set(base.UnsafeStringFromBytes(data))
}

/***************************************
 * Entity info
 ***************************************/

type FileInfo struct {
	AbsolutePath string
	os.FileInfo
}

func GetModificationTime(stat os.FileInfo) time.Time {
	return times.Get(stat).ModTime()
}

func (f Filename) Info() (*FileInfo, error) {
	pathname := f.String()
	stat, err := os.Stat(pathname)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("ufs: %q is a directory, not a file", f)
	}
	return &FileInfo{AbsolutePath: pathname, FileInfo: stat}, nil
}
func (f Filename) Exists() bool {
	info, err := f.Info()
	return err == nil && info != nil
}
func (d Directory) Exists() bool {
	stat, err := os.Stat(d.Path)
	return err == nil && stat.IsDir()
}

// Files lists the regular files directly under d, sorted by name.
func (d Directory) Files() ([]Filename, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, err
	}
	result := make([]Filename, 0, len(entries))
	for _, it := range entries {
		if it.Type().IsRegular() {
			result = append(result, d.File(it.Name()))
		} else if it.Type()&fs.ModeSymlink != 0 {
			if d.File(it.Name()).Exists() {
				result = append(result, d.File(it.Name()))
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Compare(result[j]) < 0
	})
	return result, nil
}

/***************************************
 * Frontend
 ***************************************/

var UFS UFSFrontEnd = make_ufs_frontend()

type UFSFrontEnd struct {
	Executable Filename
	Caller     Filename
	Root       Directory
	Tools      Directory
}

func (ufs *UFSFrontEnd) Remove(dst Filename) error {
	base.LogDebug(LogUFS, "remove '%v'", dst)
	if err := os.Remove(dst.String()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
func (ufs *UFSFrontEnd) MkdirEx(dst Directory) error {
	path := dst.String()
	if st, err := os.Stat(path); st != nil && (err == nil || os.IsExist(err)) {
		if !st.IsDir() {
			return fmt.Errorf("ufs: %q already exist, but is not a directory", dst)
		}
	} else {
		base.LogDebug(LogUFS, "mkdir %v", dst)
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return fmt.Errorf("ufs: mkdir %q got error %w", dst, err)
		}
	}
	return nil
}
func (ufs *UFSFrontEnd) CreateFile(dst Filename, write func(*os.File) error) (err error) {
	if err = ufs.MkdirEx(dst.Dirname); err != nil {
		return err
	}
	base.LogDebug(LogUFS, "create '%v'", dst)

	var outp *os.File
	if outp, err = os.Create(dst.String()); err == nil {
		defer func() {
			if closeErr := outp.Close(); err == nil {
				err = closeErr
			}
		}()
		if err = write(outp); err == nil {
			return nil
		}
	}
	base.LogWarning(LogUFS, "CreateFile: caught %v while trying to create %v", err, dst)
	return err
}
func (ufs *UFSFrontEnd) Create(dst Filename, write func(io.Writer) error) error {
	return ufs.CreateFile(dst, func(f *os.File) error {
		return write(f)
	})
}
func (ufs *UFSFrontEnd) CreateBuffered(dst Filename, write func(io.Writer) error) error {
	return ufs.Create(dst, func(w io.Writer) error {
		buffered := bufio.NewWriter(w)
		if err := write(buffered); err != nil {
			return err
		}
		return buffered.Flush()
	})
}

// SafeCreate writes to a temporary sibling and renames it over dst, so readers never see a partial file.
func (ufs *UFSFrontEnd) SafeCreate(dst Filename, write func(io.Writer) error) error {
	tmpFilename := dst.ReplaceExt(dst.Ext() + ".tmp")
	defer os.Remove(tmpFilename.String())

	err := ufs.CreateBuffered(tmpFilename, write)
	if err == nil {
		if err = os.Rename(tmpFilename.String(), dst.String()); err != nil {
			base.LogWarning(LogUFS, "SafeCreate: %v", err)
		}
	}
	return err
}

func (ufs *UFSFrontEnd) OpenFile(src Filename, read func(*os.File) error) (err error) {
	base.LogDebug(LogUFS, "open '%v'", src)

	var input *os.File
	if input, err = os.Open(src.String()); err == nil {
		defer func() {
			if closeErr := input.Close(); err == nil {
				err = closeErr
			}
		}()
		if err = read(input); err == nil {
			return nil
		}
	}
	base.LogVerbose(LogUFS, "OpenFile: %v", err)
	return err
}
func (ufs *UFSFrontEnd) Open(src Filename, read func(io.Reader) error) error {
	return ufs.OpenFile(src, func(f *os.File) error {
		return read(f)
	})
}
func (ufs *UFSFrontEnd) ReadAll(src Filename) ([]byte, error) {
	var raw []byte
	err := ufs.OpenFile(src, func(f *os.File) (err error) {
		raw, err = io.ReadAll(f)
		return
	})
	return raw, err
}

// Readlink returns the target of the symbolic link dst, or an error if dst is not a symlink.
func (ufs *UFSFrontEnd) Readlink(dst Filename) (string, error) {
	return os.Readlink(dst.String())
}

// Symlink makes dst a symbolic link to src, replacing whatever dst was.
func (ufs *UFSFrontEnd) Symlink(src Filename, dst Filename) error {
	if err := ufs.MkdirEx(dst.Dirname); err != nil {
		return err
	}
	if err := ufs.Remove(dst); err != nil {
		return err
	}
	base.LogDebug(LogUFS, "symlink '%v' -> '%v'", dst, src)
	return os.Symlink(src.String(), dst.String())
}

// Resolve returns the absolute path of d with every symbolic link evaluated.
func (ufs *UFSFrontEnd) Resolve(d Directory) (Directory, error) {
	resolved, err := filepath.EvalSymlinks(d.String())
	if err != nil {
		return Directory{}, err
	}
	return MakeDirectory(resolved), nil
}

func (ufs *UFSFrontEnd) MountRootDirectory(root Directory) {
	base.LogVerbose(LogUFS, "mount root directory %q", root)
	ufs.Root = root
	ufs.Tools = root.Folder("tools")
}
func (ufs *UFSFrontEnd) MountToolsDirectory(tools Directory) {
	base.LogVerbose(LogUFS, "mount tools directory %q", tools)
	ufs.Tools = tools
}

// MountCallerFile records the source file of the program entry point and mounts the first
// "tools" directory found next to it, next to the executable, or in the root directory.
func (ufs *UFSFrontEnd) MountCallerFile(caller Filename) {
	base.LogVeryVerbose(LogUFS, "mount caller file %q", caller)
	ufs.Caller = caller

	for _, tools := range ufs.toolsCandidates() {
		if tools.Exists() {
			ufs.MountToolsDirectory(tools)
			return
		}
	}
	base.LogVerbose(LogUFS, "no tools directory found, keep %q", ufs.Tools)
}
func (ufs *UFSFrontEnd) toolsCandidates() (result []Directory) {
	if ufs.Caller.Valid() {
		result = append(result, ufs.Caller.Dirname.Folder("tools"))
	}
	if ufs.Executable.Valid() {
		result = append(result, ufs.Executable.Dirname.Folder("tools"))
	}
	return append(result, ufs.Root.Folder("tools"))
}

func (ufs *UFSFrontEnd) GetWorkingDir() (Directory, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Directory{}, err
	}
	return MakeDirectory(wd), nil
}
func (ufs *UFSFrontEnd) GetCallerFile(skip int) (Filename, error) {
	_, filename, _, ok := runtime.Caller(skip)
	if !ok {
		return Filename{}, errors.New("unable to get the current filename")
	}
	return MakeFilename(filename), nil
}

func make_ufs_frontend() (ufs UFSFrontEnd) {
	executable, err := os.Executable()
	base.LogPanicIfFailed(LogUFS, err)

	ufs.Executable = MakeFilename(executable)
	base.LogVeryVerbose(LogUFS, "mount executable file %q", ufs.Executable)

	root, err := ufs.GetWorkingDir()
	base.LogPanicIfFailed(LogUFS, err)

	ufs.MountRootDirectory(root)
	return ufs
}
