package dit

import "laureld/internal/dn"

// Client presents the backend-facing API as an in-process client (§4.L):
// each call selects a backend via the router, so callers never touch a
// Backend directly. Used by internal/auth's "ldap" storage backend for
// the bind-time lookup search.
type Client struct {
	Router *Router
}

func NewClient(r *Router) *Client { return &Client{Router: r} }

func (c *Client) Search(p SearchParams) ([]Entry, error) {
	b, err := c.Router.BackendFor(p.Base)
	if err != nil {
		return nil, err
	}
	return b.Search(p)
}

func (c *Client) Compare(target dn.DN, attrType, value string) (bool, error) {
	b, err := c.Router.BackendFor(target)
	if err != nil {
		return false, err
	}
	return b.Compare(target, attrType, value)
}

func (c *Client) Add(target dn.DN, classNames, attrNames []string, values map[string][]string) error {
	b, err := c.Router.BackendFor(target)
	if err != nil {
		return err
	}
	return b.Add(target, classNames, attrNames, values)
}

func (c *Client) Delete(target dn.DN) error {
	b, err := c.Router.BackendFor(target)
	if err != nil {
		return err
	}
	return b.Delete(target)
}

func (c *Client) Modify(target dn.DN, changes []ModifyChange) error {
	b, err := c.Router.BackendFor(target)
	if err != nil {
		return err
	}
	return b.Modify(target, changes)
}

func (c *Client) ModDN(target dn.DN, newRDN dn.RDN, deleteOldRDN bool, newSuperior dn.DN) error {
	b, err := c.Router.BackendFor(target)
	if err != nil {
		return err
	}
	return b.ModDN(target, newRDN, deleteOldRDN, newSuperior)
}

// ModifyAddValue is a convenience wrapper for a single-attribute add.
func (c *Client) ModifyAddValue(target dn.DN, attrType string, values ...string) error {
	return c.Modify(target, []ModifyChange{{Op: ModifyAdd, Type: attrType, Values: values}})
}

// ModifyReplaceValue is a convenience wrapper for a single-attribute replace.
func (c *Client) ModifyReplaceValue(target dn.DN, attrType string, values ...string) error {
	return c.Modify(target, []ModifyChange{{Op: ModifyReplace, Type: attrType, Values: values}})
}

// ModifyDeleteValue is a convenience wrapper for a single-attribute delete.
func (c *Client) ModifyDeleteValue(target dn.DN, attrType string, values ...string) error {
	return c.Modify(target, []ModifyChange{{Op: ModifyDelete, Type: attrType, Values: values}})
}
