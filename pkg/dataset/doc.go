// Package dataset holds the records a chart binds to and the field spec that
// maps record fields onto visual channels.
//
// # Records
//
// A [Record] carries a stable identity [Record.Key] and a flat bag of
// fields. Keys are what the transition layer matches on between renders, so
// they must be unique within a [Dataset]. Field values may be numbers,
// strings, times, or nil. A field that is absent or nil is missing.
//
// # Field Specs
//
// A [FieldSpec] declares which record field feeds which [Channel] and with
// which scale kind:
//
//	spec := dataset.FieldSpec{
//	    Key: "id",
//	    Channels: map[dataset.Channel]dataset.Field{
//	        dataset.ChannelX: {Name: "month", Scale: scale.KindOrdinal},
//	        dataset.ChannelY: {Name: "revenue"},
//	    },
//	}
//
// Specs can also be parsed from the compact CLI form accepted by
// [ParseChannels]: "x=month:ordinal,y=revenue,radius=size?" where a
// trailing "?" marks the field optional.
//
// # Input Formats
//
// [ReadJSON] accepts an array of flat objects, [ReadCSV] a header row
// followed by data rows. [Import] picks one based on the file extension.
package dataset
