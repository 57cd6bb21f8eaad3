// Package component holds the page shell shared by every route.
package component
