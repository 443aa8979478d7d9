package utils

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogPersistent = base.NewLogCategory("Persistent")

type PersistentVar interface {
	fmt.Stringer
	flag.Value
}

type BoolVar = base.InheritableBool
type StringVar = base.InheritableString

// PersistentData holds default values for command flags, keyed by object then property.
// It is only ever read: the command line wins over anything found here.
type PersistentData interface {
	LoadData(object string, property string, value PersistentVar) error
}

type persistentData struct {
	Data map[string]map[string]string
}

func NewPersistentMap() *persistentData {
	return &persistentData{
		Data: make(map[string]map[string]string),
	}
}
func (pmp *persistentData) Len() (result int) {
	for _, vars := range pmp.Data {
		result += len(vars)
	}
	return
}
func (pmp *persistentData) LoadData(name string, property string, dst PersistentVar) error {
	if object, ok := pmp.Data[name]; ok {
		if value, ok := object[property]; ok {
			base.LogDebug(LogPersistent, "load object property %s.%s = %v", name, property, value)
			return dst.Set(value)
		}
		return fmt.Errorf("object %q has no property %q", name, property)
	}
	return fmt.Errorf("object %q not found", name)
}
func (pmp *persistentData) Deserialize(src io.Reader) error {
	if err := base.JsonDeserialize(&pmp.Data, src); err == nil {
		base.LogVerbose(LogPersistent, "loaded %d vars from disk to config", pmp.Len())
		return nil
	} else {
		return fmt.Errorf("failed to deserialize config: %w", err)
	}
}

// LoadFile reads a json config file, a missing file leaves the map empty.
func (pmp *persistentData) LoadFile(src Filename) error {
	benchmark := base.LogBenchmark(LogPersistent, "loading config from '%v'...", src)
	defer benchmark.Close()

	err := UFS.Open(src, pmp.Deserialize)
	if os.IsNotExist(err) {
		base.LogVerbose(LogPersistent, "no config found at %q", src)
		return nil
	}
	return err
}
