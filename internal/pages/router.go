package pages

// RouterContext is filled while a page renders. A page that wants the browser
// somewhere else records the target with Redirect.
type RouterContext struct {
	ViewerID string
	URL      string
}

// Redirect records the location the response should send the browser to.
func (c *RouterContext) Redirect(to string) {
	if c.URL == "" {
		c.URL = to
	}
}

// Redirected reports whether a redirect was recorded.
func (c *RouterContext) Redirected() bool {
	return c.URL != ""
}
