// ABOUTME: Owned mutable XML tree backing the full-text search config file
// ABOUTME: Direct-child lookups, get-or-create, clear-and-repopulate, file I/O

package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// RootName is the element name of the document root.
const RootName = "FullTextSearch"

var (
	// ErrUnexpectedRoot indicates the file's root element is not RootName
	ErrUnexpectedRoot = errors.New("document: unexpected root element")

	// ErrNotFound indicates the config file does not exist
	ErrNotFound = errors.New("document: file not found")

	// ErrMalformed indicates content that is not a single-rooted XML document
	ErrMalformed = errors.New("document: malformed XML")
)

// Document is a tree of named elements with attributes and text content.
// It is not safe for concurrent use.
type Document struct {
	doc *etree.Document
}

// New returns a minimal document holding only the root element.
func New() *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.CreateElement(RootName)
	return &Document{doc: doc}
}

// Parse reads a document from raw XML. The content must hold exactly one
// top-level element and no top-level text other than whitespace.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

func checkTopLevel(doc *etree.Document) error {
	elements := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			elements++
		case *etree.CharData:
			if !IsBlank(t.Data) {
				return fmt.Errorf("%w: text outside the root element", ErrMalformed)
			}
		}
	}
	switch {
	case elements == 0:
		return fmt.Errorf("%w: no root element", ErrMalformed)
	case elements > 1:
		return fmt.Errorf("%w: %d top-level elements", ErrMalformed, elements)
	}
	return nil
}

// Load reads the document stored at path. A missing file yields ErrNotFound.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config document: %w", err)
	}
	return Parse(data)
}

// Root resolves the RootName element, creating it when the document is
// empty. A document rooted at any other element is rejected.
func (d *Document) Root() (*etree.Element, error) {
	root := d.doc.Root()
	if root == nil {
		return d.doc.CreateElement(RootName), nil
	}
	if root.Tag != RootName {
		return nil, fmt.Errorf("%w: <%s>", ErrUnexpectedRoot, root.Tag)
	}
	return root, nil
}

// WriteFile serializes the document to path, creating missing parent
// directories. The file is truncated and written in place.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("write config document: %w", err)
	}
	return nil
}

// String returns the indented XML form of the document.
func (d *Document) String() string {
	clone := d.doc.Copy()
	clone.Indent(2)
	s, err := clone.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Child returns the first direct child of parent named name, or nil.
func Child(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	return parent.SelectElement(name)
}

// Path follows a chain of direct-child lookups from parent. It returns nil
// as soon as one step is missing.
func Path(parent *etree.Element, names ...string) *etree.Element {
	node := parent
	for _, name := range names {
		node = Child(node, name)
		if node == nil {
			return nil
		}
	}
	return node
}

// Children returns the direct children of parent named name, in order.
func Children(parent *etree.Element, name string) []*etree.Element {
	if parent == nil {
		return nil
	}
	return parent.SelectElements(name)
}

// GetOrCreateNode returns the first direct child of parent named name,
// appending a new empty child when none exists. Existing children are never
// removed or reordered.
func GetOrCreateNode(parent *etree.Element, name string) *etree.Element {
	if node := Child(parent, name); node != nil {
		return node
	}
	return parent.CreateElement(name)
}

// GetOrCreatePath applies GetOrCreateNode for each name in turn.
func GetOrCreatePath(parent *etree.Element, names ...string) *etree.Element {
	node := parent
	for _, name := range names {
		node = GetOrCreateNode(node, name)
	}
	return node
}

// ClearChildren removes every child token (elements, text, comments) of node.
func ClearChildren(node *etree.Element) {
	for len(node.Child) > 0 {
		node.RemoveChildAt(0)
	}
}

// ReplaceTextChildren clears node and appends one childName element per
// value, skipping blank values.
func ReplaceTextChildren(node *etree.Element, childName string, values []string) {
	ClearChildren(node)
	for _, value := range values {
		if IsBlank(value) {
			continue
		}
		node.CreateElement(childName).SetText(value)
	}
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(node *etree.Element, key string) (string, bool) {
	if node == nil {
		return "", false
	}
	attr := node.SelectAttr(key)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// Text returns the character data of node, or "" for a nil node.
func Text(node *etree.Element) string {
	if node == nil {
		return ""
	}
	return node.Text()
}
