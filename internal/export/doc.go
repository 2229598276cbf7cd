// Package export stores server-rendered pages.
//
// Destinations are local paths, written below the configured export
// directory, or s3://bucket/key URLs:
//
//	store, name, err := export.Resolve("s3://pages/index.html", cfg.Export)
//	if err != nil {
//	    return err
//	}
//	location, err := store.Put(ctx, name, "text/html; charset=utf-8", strings.NewReader(markup))
package export
