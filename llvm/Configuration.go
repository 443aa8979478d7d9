package llvm

import (
	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogLLVM = base.NewLogCategory("LLVM")

// Configuration is the fixed description of the adapters project.
type Configuration struct {
	Information factory.Information
	Formats     factory.Formats

	// type of the "fault" sole
	FactorReferences factory.FactorType
	// type of the library sole
	SystemReferences factory.FactorType
}

func NewConfiguration() Configuration {
	return Configuration{
		Information: factory.Information{
			Identifier: "http://fault.io/development/tools//llvm",
			Name:       "fault-llvm-adapters",
			Authority:  "fault.io",
			Contact:    "http://fault.io/critical",
		},
		Formats:          factory.DefaultFormats(),
		FactorReferences: factory.FACTOR_META_REFERENCES,
		SystemReferences: factory.FACTOR_SYSTEM_REFERENCES,
	}
}
