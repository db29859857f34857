// Package devserver serves a preview page and pushes recompiled-template
// notifications to connected browser tabs over a websocket. It is the
// dev-time counterpart to pkg/htmlparser/pkg/optimizer: a caller that
// recompiles a template on file change calls Broadcast to tell every open
// tab to refetch and re-render.
package devserver
