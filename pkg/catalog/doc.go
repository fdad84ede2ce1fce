// Package catalog describes the schemas available from a source: display name,
// description, icon and color, plus how many variables each declares.
package catalog
