// Package webdriver is a small W3C WebDriver client whose sessions and
// elements implement [steady.Driver] and [steady.Element].
//
// It talks plain JSON over HTTP to any W3C endpoint (chromedriver,
// geckodriver, a Selenium grid) and translates W3C error codes into the
// steady failure classes, so the resilient handles can classify them:
//
//	sess, err := webdriver.NewSession(ctx, "http://localhost:9515",
//	    map[string]any{"browserName": "chrome"})
//	if err != nil {
//	    return err
//	}
//	defer sess.Quit(ctx)
//
//	drv, _ := steady.WrapDriver(sess)
//	err = drv.Element(steady.ByCSS("#submit")).Click(ctx)
package webdriver
