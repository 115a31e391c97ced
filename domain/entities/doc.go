// Package entities provides the value types shared by every layer of the binding.
// None of these types own interpreter state; entities, labels and their values
// live inside the native Amalgam library and are only referenced here by name.
package entities
