// Package schema holds the HCL decoding structures for build configuration
// files. The structures mirror the file layout one to one; translating them
// into config.Model is the hcl package's job.
package schema

import "github.com/zclconf/go-cty/cty"

// File represents the top-level structure of a build configuration file.
type File struct {
	Catalog    *Catalog    `hcl:"catalog,block"`
	Categories []*Category `hcl:"category,block"`
	Output     *Output     `hcl:"output,block"`
	Notify     *Notify     `hcl:"notify,block"`
}

// Catalog represents the `catalog` block: where patterns live and how they
// are decoded. Unset attributes keep their defaults, hence the pointers.
type Catalog struct {
	PatternRoot   *string  `hcl:"pattern_root,optional"`
	SourceDir     *string  `hcl:"source_dir,optional"`
	SourceBaseURL *string  `hcl:"source_base_url,optional"`
	HardCellLimit *int     `hcl:"hard_cell_limit,optional"`
	Include       []string `hcl:"include,optional"`
	Exclude       []string `hcl:"exclude,optional"`
}

// Category represents a `category "<name>"` block.
type Category struct {
	Name string `hcl:"name,label"`
	// Weight is kept as a raw value so that numeric strings convert too.
	Weight cty.Value `hcl:"weight"`
}

// Output represents the `output` block.
type Output struct {
	IndexJSON *string `hcl:"index_json,optional"`
	PatternJS *string `hcl:"pattern_js,optional"`
	SQLite    *string `hcl:"sqlite,optional"`
}

// Notify represents the `notify` block.
type Notify struct {
	URL       string  `hcl:"url"`
	Namespace *string `hcl:"namespace,optional"`
	Event     *string `hcl:"event,optional"`
}
