// Package defaults persists default option values between invocations.
//
// A record holds a fixed set of fields (login, password, package,
// repository, platform). It is written wholesale by the setup command,
// read field by field when an option is missing, and deleted wholesale.
package defaults

import (
	"context"

	"github.com/tbxmanager/tbx"
)

// DefaultNamespace is the namespace records are stored under.
const DefaultNamespace = "tbxmanager"

// Fields lists the stored option names in prompt order.
var Fields = []string{tbx.OptLogin, tbx.OptPassword, tbx.OptPackage, tbx.OptRepository, tbx.OptPlatform}

// Record is the set of stored defaults. Empty fields have no default.
type Record struct {
	Login      string `yaml:"login,omitempty" json:"login,omitempty"`
	Password   string `yaml:"password,omitempty" json:"password,omitempty"`
	Package    string `yaml:"package,omitempty" json:"package,omitempty"`
	Repository string `yaml:"repository,omitempty" json:"repository,omitempty"`
	Platform   string `yaml:"platform,omitempty" json:"platform,omitempty"`
}

// Field returns the value stored for name, or "" for unknown names.
func (r Record) Field(name string) string {
	switch name {
	case tbx.OptLogin:
		return r.Login
	case tbx.OptPassword:
		return r.Password
	case tbx.OptPackage:
		return r.Package
	case tbx.OptRepository:
		return r.Repository
	case tbx.OptPlatform:
		return r.Platform
	default:
		return ""
	}
}

// SetField sets the named field. It reports false for unknown names.
func (r *Record) SetField(name, value string) bool {
	switch name {
	case tbx.OptLogin:
		r.Login = value
	case tbx.OptPassword:
		r.Password = value
	case tbx.OptPackage:
		r.Package = value
	case tbx.OptRepository:
		r.Repository = value
	case tbx.OptPlatform:
		r.Platform = value
	default:
		return false
	}
	return true
}

// IsEmpty reports whether no field is set.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// Store persists a defaults record.
type Store interface {
	// Get returns the stored value for name, or "" if there is none.
	Get(ctx context.Context, name string) (string, error)
	// SetAll replaces the whole record.
	SetAll(ctx context.Context, rec Record) error
	// All returns the whole record.
	All(ctx context.Context) (Record, error)
	// DeleteAll removes the record.
	DeleteAll(ctx context.Context) error
}
