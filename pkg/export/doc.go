// Package export dumps a document collection to a JSON file.
//
// Documents are streamed from a Source (Cloud Firestore in production),
// each converted to a plain map with Coerce, and written as one array with
// a four-space indent to <output_dir>/<collection>.json. The file appears
// only after the whole collection has been read.
//
//	source, err := export.NewFirestoreSource(ctx, &cfg.Export)
//	if err != nil {
//		return err
//	}
//	defer source.Close()
//
//	result, err := export.NewExporter(source, cfg.Export.OutputDir, logger, collector).Export(ctx, "results")
package export
