// Package extension ties the binding layer together for one extension
// library.
//
// An Extension owns the handle manager, the instance table, the class
// registry and the dispatcher. Classes are queued with the level they
// belong to and announced to the engine when that level initializes:
//
//	ext := extension.New(host, extension.WithAPI(ctx))
//	ext.RegisterClass(&Player{}, config.LevelScene)
//	if err := ext.Initialize(config.LevelScene); err != nil {
//		// the classes listed in err were skipped; the rest are loaded
//	}
//
// Deinitialize withdraws a level's classes in reverse registration order.
package extension
