// Package storage writes run artifacts and downloaded images to disk.
//
// A Manager owns one directory. It is used twice per run: once for the
// results directory, where SavePostsJSON and SaveURLList write
// images_<subreddit>_<unix>.json or .txt, and once for the image directory,
// where the downloader calls IsDownloaded and SaveImage.
//
// Every write goes to a temporary file first and is renamed into place, so
// an interrupted run never leaves a truncated artifact or image behind.
//
// Usage:
//
//	results, err := storage.NewManager("output")
//	if err != nil {
//	    return err
//	}
//	path, err := results.SavePostsJSON("EarthPorn", posts, time.Now())
package storage
