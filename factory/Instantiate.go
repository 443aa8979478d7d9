package factory

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/danjacques/gofslock/fslock"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

const (
	PROJECT_INDEX    = "project.txt"
	FACTOR_INDEX     = "factor.txt"
	FACTOR_SOURCES   = "src"
	FACTORS_MANIFEST = "factors.json"
	ROUTE_LOCK       = ".fault-llvm.lock"
)

/***************************************
 * Instantiate Options
 ***************************************/

type InstantiateSummary struct {
	Written   []string
	Linked    []string
	Unchanged []string
}

type InstantiateOptions struct {
	Force   bool
	DryRun  bool
	Summary *InstantiateSummary
}

type InstantiateOptionFunc func(*InstantiateOptions)

func OptionInstantiateForce(enabled bool) InstantiateOptionFunc {
	return func(opts *InstantiateOptions) {
		opts.Force = enabled
	}
}
func OptionInstantiateDryRun(enabled bool) InstantiateOptionFunc {
	return func(opts *InstantiateOptions) {
		opts.DryRun = enabled
	}
}
func OptionInstantiateSummary(summary *InstantiateSummary) InstantiateOptionFunc {
	return func(opts *InstantiateOptions) {
		opts.Summary = summary
	}
}

type RouteLockedError struct {
	Route utils.Directory
}

func (x RouteLockedError) Error() string {
	return fmt.Sprintf("route %q is already being instantiated by another process", x.Route)
}

/***************************************
 * Manifest
 ***************************************/

type Manifest struct {
	Fingerprint utils.Fingerprint `json:"fingerprint"`
	Parameters  Parameters        `json:"parameters"`
}

func MakeManifest(p Parameters) (Manifest, error) {
	fingerprint, err := utils.JsonFingerprint(p)
	return Manifest{
		Fingerprint: fingerprint,
		Parameters:  p,
	}, err
}

/***************************************
 * Instantiate
 ***************************************/

// Instantiate writes the project described by p in route.
// Files whose content did not change and symlinks already pointing to their source are left untouched.
func Instantiate(p Parameters, route utils.Directory, options ...InstantiateOptionFunc) (err error) {
	x := instantiation{route: route}
	for _, it := range options {
		it(&x.options)
	}
	if x.options.Summary == nil {
		x.options.Summary = &InstantiateSummary{}
	}

	if err = p.Validate(); err != nil {
		return err
	}

	benchmark := base.LogBenchmark(LogFactory, "instantiate %q in %q", p.Information.Name, route)
	defer benchmark.Close()

	if !x.options.DryRun {
		if err = utils.UFS.MkdirEx(route); err != nil {
			return err
		}

		var unlock func() error
		if unlock, err = lockRoute(route); err != nil {
			return err
		}
		defer func() {
			if er := unlock(); er != nil && err == nil {
				err = er
			}
		}()
	}

	return x.instantiate(p)
}

func lockRoute(route utils.Directory) (func() error, error) {
	lockPath := route.File(ROUTE_LOCK)
	base.LogTrace(LogFactory, "locking route file %q", lockPath)

	handle, err := fslock.Lock(lockPath.String())
	switch {
	case errors.Is(err, fslock.ErrLockHeld):
		return nil, RouteLockedError{Route: route}
	case err != nil:
		return nil, err
	}

	return func() error {
		base.LogTrace(LogFactory, "unlocking route file %q", lockPath)
		return handle.Unlock()
	}, nil
}

type instantiation struct {
	route   utils.Directory
	options InstantiateOptions
}

func (x *instantiation) instantiate(p Parameters) error {
	manifest, err := MakeManifest(p)
	if err != nil {
		return err
	}
	x.checkPreviousManifest(manifest)

	project, err := RenderProjectIndex(p)
	if err != nil {
		return err
	}
	if err = x.writeFile(x.route.File(PROJECT_INDEX), project); err != nil {
		return err
	}

	for _, sole := range p.Soles {
		ext, err := p.Formats.Extension(sole.Type)
		if err != nil {
			return fmt.Errorf("sole %q: %w", sole.Name, err)
		}
		if err = x.writeFile(x.route.File(sole.Name+"."+ext), base.UnsafeBytesFromString(sole.Text)); err != nil {
			return err
		}
	}

	for _, set := range p.Sets {
		if err = x.instantiateSet(p.Formats, set); err != nil {
			return err
		}
	}

	raw, err := base.JsonMarshal(&manifest, base.OptionJsonPrettyPrint(true))
	if err != nil {
		return err
	}
	return x.writeFile(x.route.File(FACTORS_MANIFEST), raw)
}

func (x *instantiation) instantiateSet(formats Formats, set Set) error {
	dir := x.route.Folder(set.Name)

	index, err := RenderFactorIndex(set)
	if err != nil {
		return err
	}
	if err = x.writeFile(dir.File(FACTOR_INDEX), index); err != nil {
		return err
	}

	for _, src := range set.Sources {
		// extension-less sources are directories of headers
		if ext := src.Path.Ext(); len(ext) > 0 {
			if _, ok := formats.FindExtension(set.Type.Domain(), ext); !ok {
				base.LogWarning(LogFactory, "%s: source %q has no format declared in %q", set.Name, src.Identifier, set.Type.Domain())
			}
		}
		if err = x.linkFile(src.Path, dir.Folder(FACTOR_SOURCES).File(src.Identifier)); err != nil {
			return err
		}
	}
	return nil
}

func (x *instantiation) checkPreviousManifest(manifest Manifest) {
	src := x.route.File(FACTORS_MANIFEST)
	if !src.Exists() {
		base.LogVerbose(LogFactory, "first instantiation in %q", x.route)
		return
	}

	var previous Manifest
	if err := utils.UFS.Open(src, func(r io.Reader) error {
		return base.JsonDeserialize(&previous, r)
	}); err != nil {
		base.LogWarning(LogFactory, "ignoring unreadable manifest %q: %v", src, err)
		return
	}

	if previous.Fingerprint == manifest.Fingerprint {
		base.LogVerbose(LogFactory, "parameters are unchanged since last instantiation [%v]", manifest.Fingerprint.ShortString())
	} else {
		base.LogVerbose(LogFactory, "parameters changed since last instantiation [%v -> %v]",
			previous.Fingerprint.ShortString(), manifest.Fingerprint.ShortString())
	}
}

func (x *instantiation) writeFile(dst utils.Filename, content []byte) error {
	summary := x.options.Summary
	rel := dst.Relative(x.route)

	if !x.options.Force {
		if info, err := dst.Info(); err == nil {
			if prev, err := utils.FileFingerprint(dst); err == nil && prev == utils.BytesFingerprint(content) {
				base.LogDebug(LogFactory, "%s is up-to-date (modified %v)", rel, utils.GetModificationTime(info.FileInfo))
				summary.Unchanged = append(summary.Unchanged, rel)
				return nil
			}
		}
	}

	summary.Written = append(summary.Written, rel)
	if x.options.DryRun {
		base.LogInfo(LogFactory, "would write %s (%d bytes)", rel, len(content))
		return nil
	}

	base.LogVerbose(LogFactory, "write %s", rel)
	return utils.UFS.SafeCreate(dst, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

func (x *instantiation) linkFile(src, dst utils.Filename) error {
	summary := x.options.Summary
	rel := dst.Relative(x.route)

	if !x.options.Force {
		if target, err := utils.UFS.Readlink(dst); err == nil && target == src.String() {
			base.LogDebug(LogFactory, "%s already points to %q", rel, src)
			summary.Unchanged = append(summary.Unchanged, rel)
			return nil
		}
	}

	summary.Linked = append(summary.Linked, rel)
	if x.options.DryRun {
		base.LogInfo(LogFactory, "would link %s -> %q", rel, src)
		return nil
	}

	base.LogVerbose(LogFactory, "link %s -> %q", rel, src)
	return utils.UFS.Symlink(src, dst)
}

/***************************************
 * Text indexes
 ***************************************/

// RenderProjectIndex prints the information lines of p followed by its formats, domains sorted.
func RenderProjectIndex(p Parameters) ([]byte, error) {
	buf := bytes.Buffer{}
	f := utils.NewStructuredFile(&buf, utils.STRUCTUREDFILE_DEFAULT_TAB, false)

	f.Println("identifier: %s", p.Information.Identifier)
	f.Println("name: %s", p.Information.Name)
	f.Println("authority: %s", p.Information.Authority)
	f.Println("contact: %s", p.Information.Contact)

	f.Println("")
	f.Println("formats:")
	f.BeginIndent()
	for _, domain := range p.Formats.Domains() {
		f.Println("%s:", domain)
		f.BeginIndent()
		for _, it := range p.Formats[domain] {
			f.Println("%v", it)
		}
		f.EndIndent()
	}
	f.EndIndent()

	return buf.Bytes(), f.Err()
}

// RenderFactorIndex prints the type, requirements and source identifiers of set.
func RenderFactorIndex(set Set) ([]byte, error) {
	buf := bytes.Buffer{}
	f := utils.NewStructuredFile(&buf, utils.STRUCTUREDFILE_DEFAULT_TAB, false)

	f.Println("type: %v", set.Type)

	f.Println("requirements:")
	f.BeginIndent()
	for _, it := range set.Requirements {
		f.Println("%s", it)
	}
	f.EndIndent()

	f.Println("sources:")
	f.BeginIndent()
	for _, it := range set.Sources {
		f.Println("%s", it.Identifier)
	}
	f.EndIndent()

	return buf.Bytes(), f.Err()
}
