// Package instance builds and manages component instances: the ordered
// initialization sequence (inject resolution, prop validation, data/
// computed/watch wiring, provide), the computed-property accessor, the
// per-instance event bus, and $watch/$set/$delete.
//
// An Instance is the runtime counterpart of a options.ComponentDefinition:
// where a ComponentDefinition is a class, an Instance is one of its
// objects, parented into the same tree its own children attach to.
package instance
