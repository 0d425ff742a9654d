package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField indicates a scalar name with no setter
	ErrUnknownField = errors.New("config: unknown field")

	// ErrUnknownList indicates a list name with no setter
	ErrUnknownList = errors.New("config: unknown list")

	// ErrInvalidValue indicates a value that cannot be converted for its field
	ErrInvalidValue = errors.New("config: invalid value")
)

// Scalar field names accepted by SetField.
const (
	FieldEnabled                 = "enabled"
	FieldDefaultTitleField       = "defaultTitleField"
	FieldIndexingActiveKey       = "indexingActiveKey"
	FieldFullTextContentField    = "fullTextContentField"
	FieldFullTextPathField       = "fullTextPathField"
	FieldFullTextLastCachedField = "fullTextLastCachedField"
)

// List names accepted by SetList, AddListItem and RemoveListItem.
const (
	ListDisallowedContentTypes = "disallowedContentTypes"
	ListDisallowedProperties   = "disallowedProperties"
	ListXPathsToRemove         = "xPathsToRemove"
)

type listOps struct {
	set    func(*Store, []string)
	add    func(*Store, string)
	remove func(*Store, string)
}

var lists = map[string]listOps{
	ListDisallowedContentTypes: {
		set:    (*Store).SetDisallowedContentTypes,
		add:    (*Store).AddDisallowedContentType,
		remove: (*Store).RemoveDisallowedContentType,
	},
	ListDisallowedProperties: {
		set:    (*Store).SetDisallowedProperties,
		add:    (*Store).AddDisallowedProperty,
		remove: (*Store).RemoveDisallowedProperty,
	},
	ListXPathsToRemove: {
		set:    (*Store).SetXPathsToRemove,
		add:    (*Store).AddXPathToRemove,
		remove: (*Store).RemoveXPathToRemove,
	},
}

// SetField dispatches to the scalar setter named field.
func (s *Store) SetField(field, value string) error {
	switch field {
	case FieldEnabled:
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
		s.SetEnabled(enabled)
	case FieldDefaultTitleField:
		s.SetDefaultTitleField(value)
	case FieldIndexingActiveKey:
		s.SetIndexingActiveKey(value)
	case FieldFullTextContentField:
		s.SetFullTextContentField(value)
	case FieldFullTextPathField:
		s.SetFullTextPathField(value)
	case FieldFullTextLastCachedField:
		s.SetFullTextLastCachedField(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// SetList dispatches to the bulk setter for list.
func (s *Store) SetList(list string, values []string) error {
	ops, ok := lists[list]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownList, list)
	}
	ops.set(s, values)
	return nil
}

// AddListItem dispatches to the incremental add for list.
func (s *Store) AddListItem(list, value string) error {
	ops, ok := lists[list]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownList, list)
	}
	ops.add(s, value)
	return nil
}

// RemoveListItem dispatches to the incremental remove for list.
func (s *Store) RemoveListItem(list, value string) error {
	ops, ok := lists[list]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownList, list)
	}
	ops.remove(s, value)
	return nil
}
