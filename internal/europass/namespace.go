// Package europass translates between the canonical CV record and the
// namespaced XML dialect consumed by the external document-assembly service.
// The importer reads the dialect into a Resume, the exporter writes a Resume
// back out, and the validator performs structural checks on generated
// documents without an XSD.
package europass

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespace URIs the dialect declares on its root element.
const (
	NamespaceDefault = "http://www.europass.eu/1.0"
	NamespaceEures   = "http://www.europass_eures.eu/1.0"
	NamespaceHR      = "http://www.hr-xml.org/3"
	NamespaceOA      = "http://www.openapplications.org/oagis/9"
	NamespaceXSI     = "http://www.w3.org/2001/XMLSchema-instance"
)

// The dialect mixes four namespaces freely and real-world documents disagree
// on prefixes, so all lookups below match on local name only.

// child returns the first direct child with the given local name.
func child(e *etree.Element, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// children returns all direct children with the given local name.
func children(e *etree.Element, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// descend walks a chain of local names and returns the final element.
func descend(e *etree.Element, tags ...string) *etree.Element {
	for _, tag := range tags {
		e = child(e, tag)
		if e == nil {
			return nil
		}
	}
	return e
}

// find does a depth-first search for the first element with the local name.
func find(e *etree.Element, tag string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
		if hit := find(c, tag); hit != nil {
			return hit
		}
	}
	return nil
}

// findAll collects every descendant with the local name, document order.
func findAll(e *etree.Element, tag string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
		out = append(out, findAll(c, tag)...)
	}
	return out
}

// text returns the trimmed text at the end of a chain of local names.
func text(e *etree.Element, tags ...string) string {
	target := descend(e, tags...)
	if target == nil {
		return ""
	}
	return strings.TrimSpace(target.Text())
}
