// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/MKhiriev/go-inventory-sync/models"
)

const (
	FieldUUID                   = "uuid"
	FieldCompanyPrefix          = "rfid_tag_company_prefix"
	FieldAssetReferencePrefix   = "rfid_tag_individual_asset_reference_prefix"
	FieldAccessPassword         = "rfid_tag_access_password"
	FieldAccessPasswordEncoding = "rfid_tag_access_password_encoding"
	FieldCollectionsOrder       = "collections_order"
)

//go:embed config.cue
var configSchemaSource string

type ConfigDocumentValidator struct {
	ctx    *cue.Context
	schema cue.Value
	err    error
}

// NewConfigDocumentValidator compiles the embedded #Config schema. A schema
// that fails to compile makes every Validate call return ErrInvalidSchema.
func NewConfigDocumentValidator() Validator {
	ctx := cuecontext.New()
	v := &ConfigDocumentValidator{ctx: ctx}

	compiled := ctx.CompileString(configSchemaSource, cue.Filename("config.cue"))
	if err := compiled.Err(); err != nil {
		v.err = fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		return v
	}
	v.schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if err := v.schema.Err(); err != nil {
		v.err = fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return v
}

// Validate accepts models.Document (its body is checked), json.RawMessage or
// []byte. With fields given, only those top-level fields are checked.
func (v *ConfigDocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	if v.err != nil {
		return v.err
	}

	var data []byte
	switch value := obj.(type) {
	case models.Document:
		data = value.Body
	case *models.Document:
		if value == nil {
			return fmt.Errorf("%w: nil document", ErrInvalidConfig)
		}
		data = value.Body
	case json.RawMessage:
		data = value
	case []byte:
		data = value
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	if len(data) == 0 {
		return fmt.Errorf("%w: empty document", ErrInvalidConfig)
	}

	expr, err := cuejson.Extract("config.json", data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	unified := v.schema.Unify(v.ctx.BuildExpr(expr))

	if len(fields) == 0 {
		return wrapCUEError(unified.Validate(cue.Concrete(true)))
	}

	for _, field := range fields {
		if !isKnownField(field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		fv := unified.LookupPath(cue.MakePath(cue.Str(field)))
		if !fv.Exists() {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
		}
		if err = wrapCUEError(fv.Validate(cue.Concrete(true))); err != nil {
			return err
		}
	}
	return nil
}

func isKnownField(field string) bool {
	switch field {
	case FieldUUID, FieldCompanyPrefix, FieldAssetReferencePrefix,
		FieldAccessPassword, FieldAccessPasswordEncoding, FieldCollectionsOrder:
		return true
	}
	return false
}

func wrapCUEError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, cueerrors.Details(err, nil))
}
