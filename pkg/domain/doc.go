/*
Package domain contains the lifecycle events shared by the envguard facade and its observers.

The core types (environments, schemas, reports) live in their own packages; domain only
describes what happened during a call so that metrics, logging and UIs can react to it
without importing the adapters that triggered it.

# Key Types

  - ValidationEvent: emitted after every Validate call, successful or not.
  - CompareEvent: emitted after every Compare call.
  - Hooks: optional callbacks receiving those events.
*/
package domain
