// Package hub fetches and parses the dothub registry: a YAML document
// mapping a type tag (nvim, tmux, ...) to one source URL or a list of them.
//
//	nvim: https://github.com/acme/nvim-config
//	tmux:
//	  - https://github.com/acme/tmux-config
//	  - git@github.com:other/tmux.git
//
// Types keep their document order, so flattening is deterministic and the
// catalog can break star-count ties by registry position.
package hub
