// Package validation validates configuration structs.
//
// Struct tags cover single fields:
//
//	type ContainerConfig struct {
//	    Strategy string `mapstructure:"strategy" validate:"required,oneof=scan eager"`
//	}
//	err := validation.Validate(cfg)
//
// Rules that span fields use a Validator:
//
//	v := validation.New().Merge(validation.Validate(cfg))
//	v.Custom(cfg.Strategy != "scan" || len(cfg.Namespaces) > 0, "container.namespaces", "is required for scan")
//	if err := v.Validate(); err != nil { ... }
//
// Both return INVALID_CONFIG AppErrors whose "fields" detail lists each
// failing key.
package validation
