package dataset

import (
	"slices"
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Channel is a visual channel a field can be bound to.
type Channel string

const (
	ChannelX        Channel = "x"
	ChannelY        Channel = "y"
	ChannelRadius   Channel = "radius"
	ChannelRank     Channel = "rank"
	ChannelCategory Channel = "category"
	ChannelValue    Channel = "value"
)

// AllChannels lists the recognised channels in canonical order.
var AllChannels = []Channel{ChannelX, ChannelY, ChannelValue, ChannelRadius, ChannelRank, ChannelCategory}

// DefaultKeyField is the record field used as identity when a spec does not
// name one.
const DefaultKeyField = "id"

// Field binds a record field to a channel.
type Field struct {
	Name     string     `json:"name" toml:"name" yaml:"name" bson:"name"`
	Scale    scale.Kind `json:"scale,omitempty" toml:"scale,omitempty" yaml:"scale,omitempty" bson:"scale,omitempty"`
	Optional bool       `json:"optional,omitempty" toml:"optional,omitempty" yaml:"optional,omitempty" bson:"optional,omitempty"`
}

// FieldSpec maps channels onto record fields.
type FieldSpec struct {
	Key      string            `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty" bson:"key,omitempty"`
	Channels map[Channel]Field `json:"channels" toml:"channels" yaml:"channels" bson:"channels"`
}

// KeyField returns the identity field name, defaulting to "id".
func (s FieldSpec) KeyField() string {
	if s.Key == "" {
		return DefaultKeyField
	}
	return s.Key
}

// Field returns the binding for ch.
func (s FieldSpec) Field(ch Channel) (Field, bool) {
	f, ok := s.Channels[ch]
	return f, ok && f.Name != ""
}

// Require fails with INVALID_CONFIG if any of the channels is unbound.
func (s FieldSpec) Require(chs ...Channel) error {
	for _, ch := range chs {
		if _, ok := s.Field(ch); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "field spec does not bind channel %q", ch)
		}
	}
	return nil
}

// With returns a copy of s with ch bound to f.
func (s FieldSpec) With(ch Channel, f Field) FieldSpec {
	out := FieldSpec{Key: s.Key, Channels: make(map[Channel]Field, len(s.Channels)+1)}
	for k, v := range s.Channels {
		out.Channels[k] = v
	}
	out.Channels[ch] = f
	return out
}

// Validate checks channel names and field names.
func (s FieldSpec) Validate() error {
	if s.Key != "" {
		if err := errors.ValidateFieldName(s.Key); err != nil {
			return err
		}
	}
	for ch, f := range s.Channels {
		if !slices.Contains(AllChannels, ch) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown channel %q", ch)
		}
		if err := errors.ValidateFieldName(f.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "channel %q", ch)
		}
		if f.Scale != "" {
			if _, err := scale.ParseKind(string(f.Scale)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Normalize validates s and returns a copy with every scale alias
// ("categorical", "band", mixed case) rewritten to its canonical kind.
func (s FieldSpec) Normalize() (FieldSpec, error) {
	if err := s.Validate(); err != nil {
		return FieldSpec{}, err
	}
	out := FieldSpec{Key: s.Key, Channels: make(map[Channel]Field, len(s.Channels))}
	for ch, f := range s.Channels {
		if f.Scale != "" {
			f.Scale, _ = scale.ParseKind(string(f.Scale))
		}
		out.Channels[ch] = f
	}
	return out, nil
}

// String renders the field spec in the form accepted by [ParseChannels], with
// channels in canonical order.
func (s FieldSpec) String() string {
	var parts []string
	for _, ch := range AllChannels {
		f, ok := s.Field(ch)
		if !ok {
			continue
		}
		p := string(ch) + "=" + f.Name
		if f.Scale != "" {
			p += ":" + string(f.Scale)
		}
		if f.Optional {
			p += "?"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ",")
}

// ParseChannels parses "x=month:ordinal,y=revenue,radius=size?" into a
// FieldSpec with the given key field.
func ParseChannels(key, s string) (FieldSpec, error) {
	spec := FieldSpec{Key: key, Channels: map[Channel]Field{}}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch, rest, ok := strings.Cut(part, "=")
		if !ok {
			return FieldSpec{}, errors.New(errors.ErrCodeInvalidConfig, "channel binding %q must be channel=field", part)
		}
		var f Field
		if strings.HasSuffix(rest, "?") {
			f.Optional = true
			rest = strings.TrimSuffix(rest, "?")
		}
		name, kind, hasKind := strings.Cut(rest, ":")
		f.Name = strings.TrimSpace(name)
		if hasKind {
			k, err := scale.ParseKind(kind)
			if err != nil {
				return FieldSpec{}, err
			}
			f.Scale = k
		}
		spec.Channels[Channel(strings.ToLower(strings.TrimSpace(ch)))] = f
	}
	if err := spec.Validate(); err != nil {
		return FieldSpec{}, err
	}
	return spec, nil
}
