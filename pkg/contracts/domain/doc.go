// Package domain defines the data contracts shared between the dataset
// loader, the view builders, and the HTTP transport layer.
package domain
