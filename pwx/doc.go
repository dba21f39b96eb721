// Package pwx adapts a Playwright page to [steady.Driver].
//
// Playwright element handles carry no public identity. List searches such
// as IndexOf compare nodes inside the page through [Element.SameAs].
package pwx
