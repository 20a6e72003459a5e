// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// client is the access layer for the stord storage-management daemon.
// The daemon is reachable over the bus only, callers obtain a proxy for
// an object path and invoke remote methods and properties through it.
//
// The pipeline is: candidate string -> objpath.Validate -> validated
// path -> objproxy.Resolve -> proxy -> invoke.Call / invoke.GetProperty
// / invoke.SetProperty -> decoded result or classified fault. The
// Client type in this package binds the pipeline to one daemon endpoint
// and provides typed wrappers for the manager surface.
//
// The transport and the descriptor tables are both replaceable: the
// transport through the objproxy.Bus interface (real connection or the
// sim package) and the schema through the iface descriptor tables.
package client
