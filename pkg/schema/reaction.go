package schema

const ReactionSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "reaction",
	"fields" : [
		{"name": "product_id", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "likes", "type": "long"},
		{"name": "dislikes", "type": "long"},
		{"name": "at", "type": "long"}
	]
}`

// A ReactionV1 is one like or dislike event with the absolute
// counters the catalog held after applying it.
type ReactionV1 struct {
	ProductID string `avro:"product_id"`
	Action    string `avro:"action"`
	Likes     int64  `avro:"likes"`
	Dislikes  int64  `avro:"dislikes"`
	At        int64  `avro:"at"`
}

const TallySchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "tally",
	"fields" : [
		{"name": "likes", "type": "long"},
		{"name": "dislikes", "type": "long"}
	]
}`

// A TallyV1 is the materialized counter pair for one product.
type TallyV1 struct {
	Likes    int64 `avro:"likes"`
	Dislikes int64 `avro:"dislikes"`
}
