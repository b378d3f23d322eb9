// Package paths provides the fixed layout of the virtual file tree.
//
// # Directory Structure
//
//	/
//	  └── home/
//	      └── parth/          (home, "~")
//	          ├── Projects/
//	          ├── Documents/
//	          └── welcome.txt
//
// Root, /home and the home directory are protected from removal.
//
// # Usage
//
//	paths.Display("/home/parth/Projects") // "~/Projects"
//	parent, name := paths.Split("/home/parth/notes.txt")
package paths
