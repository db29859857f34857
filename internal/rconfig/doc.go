// Package rconfig loads and validates the project configuration file.
// Two shapes are accepted, selected by file extension: vuecore.json
// (the teacher's config shape — dev server settings, template-parser
// options, the optimizer toggle, the component registry endpoint) and
// vuecore.yaml (a component manifest mapping a component name to its
// template and script files).
package rconfig
