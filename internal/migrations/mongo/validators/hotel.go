package validators

import "go.mongodb.org/mongo-driver/bson"

var HotelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "city", "rooms", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"rating": bson.M{
				"bsonType": "number",
				"minimum":  0,
				"maximum":  5,
			},

			"base_price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"rooms": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"number", "type", "is_available"},
					"properties": bson.M{
						"number":       bson.M{"bsonType": "string", "minLength": 1},
						"type":         bson.M{"bsonType": "string"},
						"price":        bson.M{"bsonType": "number", "minimum": 0},
						"is_available": bson.M{"bsonType": "bool"},
						"bookings": bson.M{
							"bsonType": "array",
							"items":    bson.M{"bsonType": "string"},
						},
					},
				},
			},

			"customers": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
