// Package gen holds the built-in generator specs. Every spec reads its
// defaults from settings when the engine prepares it; values configured on
// a generator take precedence.
//
//	fixturegen.Of[Person]().
//		Generate(fixturegen.Field[Person]("Name"), gen.String().Length(8).Alpha()).
//		Generate(fixturegen.Field[Person]("Tags"), gen.Slice().Size(3).Unique())
package gen
