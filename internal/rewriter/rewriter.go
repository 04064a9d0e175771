package rewriter

import "log"

// Options configures a rewrite pass.
type Options struct {
	ScanDir string // where .meta files are scanned; defaults to WorkDir
	WorkDir string // where occurrences are rewritten
	Ignore  string // comma-separated extensions to skip; defaults to DefaultIgnore
	Force   bool   // apply changes; otherwise dry-run
}

// Run builds the guid mapping from ScanDir and applies it under WorkDir.
// Without Force this is a dry run: everything is logged, nothing is written.
func Run(opts Options) (Mapping, error) {
	scanDir := opts.ScanDir
	if scanDir == "" {
		scanDir = opts.WorkDir
	}
	ignore := opts.Ignore
	if ignore == "" {
		ignore = DefaultIgnore
	}

	mapping, err := BuildMapping(scanDir)
	if err != nil {
		return nil, err
	}
	if err := Apply(opts.WorkDir, ParseIgnoreList(ignore), mapping, opts.Force); err != nil {
		return nil, err
	}
	if !opts.Force {
		log.Printf("Dry-run: no changes made. Use --force or -f to apply changes.")
	}
	return mapping, nil
}
