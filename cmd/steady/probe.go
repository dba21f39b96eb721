package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/byte4ever/steady"
	"github.com/byte4ever/steady/pwx"
	"github.com/byte4ever/steady/rodx"
	"github.com/byte4ever/steady/webdriver"
)

var probeCommand = &cli.Command{
	Name:  "probe",
	Usage: "Locate one element and run an action on it",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "webdriver",
			Usage:   "W3C WebDriver endpoint, e.g. http://localhost:9515",
			EnvVars: []string{"STEADY_WEBDRIVER_URL"},
		},
		&cli.BoolFlag{Name: "rod", Usage: "Drive a local Chrome over DevTools"},
		&cli.BoolFlag{Name: "stealth", Usage: "With --rod, inject stealth evasions"},
		&cli.BoolFlag{Name: "playwright", Usage: "Drive Chromium through Playwright"},
		&cli.BoolFlag{Name: "headless", Value: true, Usage: "Run local browsers headless"},
		&cli.StringFlag{Name: "browser", Value: "chrome", Usage: "browserName capability for --webdriver"},
		&cli.StringFlag{Name: "url", Usage: "Page to open first"},
		&cli.StringFlag{Name: "css", Usage: "CSS selector"},
		&cli.StringFlag{Name: "xpath", Usage: "XPath expression"},
		&cli.IntFlag{Name: "index", Value: -1, Usage: "Pick the n-th match, waiting for it to appear"},
		&cli.StringFlag{Name: "action", Value: "text", Usage: "click, text or attr"},
		&cli.StringFlag{Name: "name", Usage: "Attribute name for --action attr"},
		&cli.StringFlag{Name: "config", Usage: "JSON or YAML configuration file"},
	},
	Action: probe,
}

func probe(c *cli.Context) error {
	by, err := locator(c)
	if err != nil {
		return err
	}

	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	logger := newLogger(c)
	ctx := c.Context

	raw, closeFn, err := openDriver(ctx, c, logger)
	if err != nil {
		return err
	}

	defer closeFn()

	drv, err := steady.WrapDriver(raw, append(opts, steady.WithLogger(logger))...)
	if err != nil {
		return err
	}

	if u := c.String("url"); u != "" {
		if err := drv.Navigate(ctx, u); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
	}

	var el steady.Element = drv.Element(by)

	if i := c.Int("index"); i >= 0 {
		el, err = drv.Elements(by).Get(ctx, i)
		if err != nil {
			return err
		}
	}

	out, err := act(ctx, c, el)
	if err != nil {
		return err
	}

	fmt.Fprintf(writer(c), "%s %s %s\n", color.GreenString("ok"), by, out)

	return nil
}

func locator(c *cli.Context) (steady.By, error) {
	css, xpath := c.String("css"), c.String("xpath")

	switch {
	case css != "" && xpath != "":
		return steady.By{}, errors.New("--css and --xpath are mutually exclusive")
	case css != "":
		return steady.ByCSS(css), nil
	case xpath != "":
		return steady.ByXPath(xpath), nil
	default:
		return steady.By{}, errors.New("one of --css or --xpath is required")
	}
}

func act(ctx context.Context, c *cli.Context, el steady.Element) (string, error) {
	switch c.String("action") {
	case "click":
		return "clicked", el.Click(ctx)
	case "text":
		return el.Text(ctx)
	case "attr":
		name := c.String("name")
		if name == "" {
			return "", errors.New("--action attr needs --name")
		}

		return el.Attribute(ctx, name)
	default:
		return "", fmt.Errorf("unknown action %q", c.String("action"))
	}
}

// openDriver starts the selected engine and returns its driver and a
// function releasing everything it started.
func openDriver(
	ctx context.Context,
	c *cli.Context,
	logger logrus.FieldLogger,
) (steady.Driver, func(), error) {
	engines := 0

	for _, on := range []bool{c.String("webdriver") != "", c.Bool("rod"), c.Bool("playwright")} {
		if on {
			engines++
		}
	}

	if engines != 1 {
		return nil, nil, errors.New("pick exactly one of --webdriver, --rod or --playwright")
	}

	switch {
	case c.String("webdriver") != "":
		return openWebDriver(ctx, c, logger)
	case c.Bool("rod"):
		return openRod(c)
	default:
		return openPlaywright(c)
	}
}

func openWebDriver(
	ctx context.Context,
	c *cli.Context,
	logger logrus.FieldLogger,
) (steady.Driver, func(), error) {
	sess, err := webdriver.NewSession(
		ctx,
		c.String("webdriver"),
		map[string]any{"browserName": c.String("browser")},
		webdriver.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	return sess, func() {
		if err := sess.Quit(context.Background()); err != nil {
			logger.WithError(err).Warn("quit session")
		}
	}, nil
}

func openRod(c *cli.Context) (steady.Driver, func(), error) {
	l := launcher.New().Headless(c.Bool("headless"))

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()

		return nil, nil, fmt.Errorf("connect chrome: %w", err)
	}

	open := rodx.Open
	if c.Bool("stealth") {
		open = rodx.OpenStealth
	}

	drv, err := open(browser, "")
	if err != nil {
		_ = browser.Close()
		l.Kill()

		return nil, nil, err
	}

	return drv, func() {
		_ = browser.Close()
		l.Kill()
	}, nil
}

func openPlaywright(c *cli.Context) (steady.Driver, func(), error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.Bool("headless")),
	})
	if err != nil {
		_ = pw.Stop()

		return nil, nil, fmt.Errorf("launch chromium: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()

		return nil, nil, fmt.Errorf("new page: %w", err)
	}

	return pwx.NewDriver(page), func() {
		_ = browser.Close()
		_ = pw.Stop()
	}, nil
}
