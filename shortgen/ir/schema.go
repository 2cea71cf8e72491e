package ir

// Schema is the set of type descriptors extracted from one Go package.
type Schema struct {
	// Package is the source Go package information.
	Package PackageInfo

	// Types contains the descriptors to generate, in source order.
	Types []*TypeDescriptor

	// Warnings contains non-fatal issues encountered during schema building.
	Warnings []Warning
}

// AddType adds a type descriptor to the schema.
func (s *Schema) AddType(t *TypeDescriptor) {
	s.Types = append(s.Types, t)
}

// AddWarning adds a warning to the schema.
func (s *Schema) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// FindType looks up a type by name. Returns nil if not found.
func (s *Schema) FindType(name string) *TypeDescriptor {
	for _, t := range s.Types {
		if t.Name.Name == name {
			return t
		}
	}
	return nil
}

// Validate checks every descriptor plus cross-type rules.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errs []error

	seen := make(map[GoIdentifier]bool, len(s.Types))
	for _, t := range s.Types {
		errs = append(errs, t.Validate()...)
		if t.Name.Name == "" {
			continue
		}
		if seen[t.Name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + t.Name.Name + " (package: " + t.Name.Package + ")",
			})
		}
		seen[t.Name] = true
	}

	return errs
}

// ValidationError represents a descriptor validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
