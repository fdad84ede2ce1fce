/*
Package ports defines the driven ports (interfaces) of envguard.

These interfaces decouple the facade from where schema documents are kept, so that
the same validation core can read embedded defaults, a directory on disk, Redis or
any combination of them.

# Key Interfaces

  - SchemaSource: read-only lookup of raw schema documents by name.
  - SchemaStore: a SchemaSource that can also save and delete documents.
  - Watchable: a source that reports which schema changed.
*/
package ports
