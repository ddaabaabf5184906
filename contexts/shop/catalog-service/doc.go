// Package catalogservice contains the shopstream product catalog module:
// command production for product mutations, the product command consumer,
// and product/inventory persistence.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package catalogservice
