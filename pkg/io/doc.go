// Package io reads and writes the published catalog directory.
//
// # Layout
//
// A published catalog is a flat directory:
//
//	repository.json          index of includes with sha-512 checksums
//	phpunit-tool.json        every downloadable version of tool "phpunit"
//	psalm-plugin.json        every version of plugin "psalm"
//	psalm-1.0.0.php          plugin code
//	psalm-1.0.0.php.asc      detached plugin signature (optional)
//
// The index lists includes sorted by file name:
//
//	{
//	  "includes": [
//	    {"url": "phpunit-tool.json", "checksum": {"type": "sha-512", "value": "..."}}
//	  ]
//	}
//
// A tool include maps the tool name to its versions:
//
//	{
//	  "tools": {
//	    "phpunit": [
//	      {
//	        "version": "10.0.0",
//	        "url": "https://phar.phpunit.de/phpunit-10.0.0.phar",
//	        "requirements": {"php": {"php": ">=8.1"}, "composer": {}},
//	        "checksum": {"type": "sha-256", "value": "..."},
//	        "signature": "https://phar.phpunit.de/phpunit-10.0.0.phar.asc"
//	      }
//	    ]
//	  }
//	}
//
// Plugin includes look alike with "api-version", "type": "php-file" and the
// requirement categories "php", "tool", "plugin" and "composer". The "url"
// of a plugin names its code file in the same directory.
//
// Requirement objects keep the order in which requirements were declared.
//
// # Export
//
// [Export] writes a [catalog.Repository]. Tools without a single
// downloadable version are left out. Plugin code is copied (file plugins)
// or written (inline plugins) next to the includes. Include, code and
// signature files of earlier exports that are no longer referenced are
// deleted.
//
// # Import
//
// [Import] is the inverse of [Export], up to tools without downloads and
// plugin code locations. It is used to obtain the "before" snapshot for a
// diff, and by the "catalog" source to re-publish another catalog.
package io
