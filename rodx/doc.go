// Package rodx adapts a go-rod page to [steady.Driver] so the resilient
// handles can drive Chrome over the DevTools protocol without a WebDriver
// server.
//
// Only the CSS, XPath, link text and tag name strategies are supported.
// Rod's own errors are mapped onto the steady failure classes.
package rodx
