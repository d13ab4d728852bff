package geo

import (
	"bytes"
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// Members holds the foreign members of a GeoJSON object, such as the "name"
// written by many exporters. They are carried through conversion unchanged.
type Members map[string]any

var (
	documentKeys = keySet("crs", "coordinates", "geometry", "properties", "id", "type", "bbox", "features", "geometries")
	featureKeys  = keySet("geometry", "properties", "id", "type", "bbox")
	geometryKeys = keySet("coordinates", "type", "bbox", "geometries")
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalJSON(plain(d), d.Members, documentKeys)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	members, err := unmarshalJSONMembers(data, documentKeys)
	if err != nil {
		return err
	}

	*d = Document(v)
	d.Members = members
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Document) MarshalYAML() (any, error) {
	type plain Document
	return marshalYAML(plain(d), d.Members, documentKeys)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	type plain Document
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}

	members, err := unmarshalYAMLMembers(value, documentKeys)
	if err != nil {
		return err
	}

	*d = Document(v)
	d.Members = members
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Feature) MarshalJSON() ([]byte, error) {
	type plain Feature
	return marshalJSON(plain(f), f.Members, featureKeys)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	members, err := unmarshalJSONMembers(data, featureKeys)
	if err != nil {
		return err
	}

	*f = Feature(v)
	f.Members = members
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Feature) MarshalYAML() (any, error) {
	type plain Feature
	return marshalYAML(plain(f), f.Members, featureKeys)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Feature) UnmarshalYAML(value *yaml.Node) error {
	type plain Feature
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}

	members, err := unmarshalYAMLMembers(value, featureKeys)
	if err != nil {
		return err
	}

	*f = Feature(v)
	f.Members = members
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g Geometry) MarshalJSON() ([]byte, error) {
	type plain Geometry
	return marshalJSON(plain(g), g.Members, geometryKeys)
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	type plain Geometry
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	members, err := unmarshalJSONMembers(data, geometryKeys)
	if err != nil {
		return err
	}

	*g = Geometry(v)
	g.Members = members
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g Geometry) MarshalYAML() (any, error) {
	type plain Geometry
	return marshalYAML(plain(g), g.Members, geometryKeys)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Geometry) UnmarshalYAML(value *yaml.Node) error {
	type plain Geometry
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}

	members, err := unmarshalYAMLMembers(value, geometryKeys)
	if err != nil {
		return err
	}

	*g = Geometry(v)
	g.Members = members
	return nil
}

// marshalJSON encodes v and appends the foreign members to the object.
func marshalJSON(v any, members Members, known map[string]bool) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(members) == 0 {
		return data, err
	}

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])

	for _, key := range foreignKeys(members, known) {
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(members[key])
		if err != nil {
			return nil, err
		}

		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalJSONMembers(data []byte, known map[string]bool) (Members, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var members Members
	for key, value := range raw {
		if known[key] {
			continue
		}

		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		if members == nil {
			members = make(Members)
		}
		members[key] = v
	}

	return members, nil
}

// marshalYAML encodes v as a mapping node followed by the foreign members.
func marshalYAML(v any, members Members, known map[string]bool) (any, error) {
	if len(members) == 0 {
		return v, nil
	}

	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}

	for _, key := range foreignKeys(members, known) {
		var k, value yaml.Node
		k.SetString(key)
		if err := value.Encode(members[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &value)
	}

	return &node, nil
}

func unmarshalYAMLMembers(value *yaml.Node, known map[string]bool) (Members, error) {
	if value.Kind != yaml.MappingNode {
		return nil, nil
	}

	var members Members
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if known[key] {
			continue
		}

		var v any
		if err := value.Content[i+1].Decode(&v); err != nil {
			return nil, err
		}
		if members == nil {
			members = make(Members)
		}
		members[key] = v
	}

	return members, nil
}

// foreignKeys returns the member names that do not shadow a modelled member, sorted.
func foreignKeys(members Members, known map[string]bool) []string {
	keys := make([]string, 0, len(members))
	for key := range members {
		if !known[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
