package contract

import (
	"fmt"
	"os"
)

// LoadFromArtifact loads an interface description from a local file that is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"abi":[...],"bytecode":"0x...",...}
//
// Both formats are detected automatically.
func LoadFromArtifact(path string) (*Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read ABI file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ABI file is empty: %s", path)
	}

	iface, err := ParseInterface(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validateInterface(iface, path); err != nil {
		return nil, err
	}
	return iface, nil
}

// Resolve returns the interface at path, or the named built-in when path is
// empty.
func Resolve(path, builtin string) (*Interface, error) {
	if path != "" {
		return LoadFromArtifact(path)
	}
	if builtin == "" {
		builtin = BuiltinURWA20
	}
	b, ok := GetBuiltin(builtin)
	if !ok {
		return nil, fmt.Errorf("unknown built-in interface %q", builtin)
	}
	return b.Interface, nil
}

// validateInterface checks that the description has at least one function or event.
func validateInterface(iface *Interface, path string) error {
	if len(iface.Entries()) == 0 {
		return fmt.Errorf("ABI is empty (no functions or events found): %s", path)
	}
	if len(iface.Functions()) == 0 && len(iface.Events()) == 0 {
		return fmt.Errorf("ABI has %d entries but none are functions or events, check the file format: %s", len(iface.Entries()), path)
	}
	return nil
}
