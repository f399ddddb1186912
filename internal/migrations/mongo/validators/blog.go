package validators

import "go.mongodb.org/mongo-driver/bson"

var BlogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"title", "slug", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 300,
			},

			"slug": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z0-9]+(-[a-z0-9]+)*$",
			},

			"author_id": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
