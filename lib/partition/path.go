package partition

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
)

// OrderedValues returns the values of the map in the order of the partition
// keys. Every key must have an entry, extra entries in the map are ignored.
func OrderedValues(keys []*hmsapi.FieldSchema, values map[string]string) ([]string, error) {
	ordered := make([]string, len(keys))
	for i, key := range keys {
		v, ok := values[key.Name]
		if !ok {
			return nil, &MissingValueError{Key: key.Name}
		}
		ordered[i] = v
	}
	return ordered, nil
}

// PartitionPath computes the relative directory of a partition, e.g.
// "ds=2024-01-01/country=US". The result equals the partition name the
// metastore uses for the same partition.
func PartitionPath(keys []*hmsapi.FieldSchema, values map[string]string) (string, error) {
	ordered, err := OrderedValues(keys, values)
	if err != nil {
		return "", err
	}
	return MakePartName(keys, ordered)
}

// MakePartName builds the partition name from keys and values given in the
// same order. Key names are lower-cased, names and values are escaped with
// EscapePathName and empty values are replaced by DefaultPartitionName.
func MakePartName(keys []*hmsapi.FieldSchema, values []string) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoKeys
	}
	if len(keys) != len(values) {
		return "", fmt.Errorf("%w: keys %v, values %v", ErrSizeMismatch, KeyNames(keys), values)
	}

	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(EscapePathName(strings.ToLower(key.Name)))
		sb.WriteByte('=')
		if values[i] == "" {
			sb.WriteString(DefaultPartitionName)
		} else {
			sb.WriteString(EscapePathName(values[i]))
		}
	}
	return sb.String(), nil
}

// ParsePartName splits a partition name into its keys (in path order) and a
// map of the unescaped values. Empty path components are ignored.
func ParsePartName(name string) ([]string, map[string]string, error) {
	var keys []string
	values := make(map[string]string)

	for _, component := range strings.Split(name, "/") {
		if component == "" {
			continue
		}
		k, v, ok := strings.Cut(component, "=")
		if !ok || k == "" || v == "" {
			return nil, nil, fmt.Errorf("invalid partition name component %q in %q", component, name)
		}
		key := UnescapePathName(k)
		if _, dup := values[key]; dup {
			return nil, nil, fmt.Errorf("duplicate partition key %q in %q", key, name)
		}
		keys = append(keys, key)
		values[key] = UnescapePathName(v)
	}

	if len(keys) == 0 {
		return nil, nil, ErrNoKeys
	}
	return keys, values, nil
}

// PartitionLocation returns the directory of a partition below the location
// of its table
func PartitionLocation(tableLocation string, keys []*hmsapi.FieldSchema, values map[string]string) (string, error) {
	path, err := PartitionPath(keys, values)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(tableLocation, "/") + "/" + path, nil
}

// KeyNames returns the names of the partition keys
func KeyNames(keys []*hmsapi.FieldSchema) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = key.Name
	}
	return names
}
