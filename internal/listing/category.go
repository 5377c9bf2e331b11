// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"fmt"
	"strings"
)

// Category is a job listing category.
type Category string

const (
	Postdoc Category = "postdoc"
	Faculty Category = "faculty"
)

// Categories lists every category in report order.
var Categories = []Category{Postdoc, Faculty}

// JobRegisterURL is the AAS Job Register. It sits behind a Cloudflare
// challenge so it is announced, never scraped.
const JobRegisterURL = "https://jobregister.aas.org"

// ParseCategory maps a name to a Category.
func ParseCategory(name string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(name))); c {
	case Postdoc, Faculty:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q, must be one of %v", name, Categories)
}

// WikiPage returns the Rumor Mill wiki page id for the category.
func (c Category) WikiPage() string {
	if c == Faculty {
		return "Rumor+Mill+Faculty-Staff"
	}
	return "Rumor+Mill"
}

func (c Category) String() string {
	return string(c)
}
