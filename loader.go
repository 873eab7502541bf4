package formcheck

import (
	"io/fs"

	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/orchestrator"
)

// LoadForms reads definitions from a YAML or JSON file and returns an
// orchestrator option serving them.
func LoadForms(path string) (orchestrator.Option, error) {
	store, err := formdef.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithStore(store), nil
}

// LoadFormsFS reads every definition file in fsys.
func LoadFormsFS(fsys fs.FS) (orchestrator.Option, error) {
	store, err := formdef.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithStore(store), nil
}
