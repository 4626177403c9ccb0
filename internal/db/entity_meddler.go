package db

import (
	"fmt"

	"github.com/goran-ethernal/BlockPipe/pkg/entity"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("entity", EntityMeddler{})
}

// EntityMeddler stores entity.Kind values as their text name.
type EntityMeddler struct{}

func (EntityMeddler) PreRead(fieldAddr any) (scanTarget any, err error) {
	return new(string), nil
}

func (EntityMeddler) PostRead(fieldAddr, scanTarget any) error {
	name, ok := scanTarget.(*string)
	if !ok {
		return fmt.Errorf("expected *string scan target, got %T", scanTarget)
	}

	kind, err := entity.Parse(*name)
	if err != nil {
		return err
	}

	ptr, ok := fieldAddr.(*entity.Kind)
	if !ok {
		return fmt.Errorf("expected *entity.Kind, got %T", fieldAddr)
	}
	*ptr = kind
	return nil
}

func (EntityMeddler) PreWrite(field any) (saveValue any, err error) {
	kind, ok := field.(entity.Kind)
	if !ok {
		return nil, fmt.Errorf("expected entity.Kind, got %T", field)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("cannot store invalid entity kind")
	}
	return kind.String(), nil
}
