package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"hotel_id",
			"room",
			"check_in",
			"check_out",
			"total_price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"hotel_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"room": bson.M{
				"bsonType": "object",
				"required": []string{"number"},
				"properties": bson.M{
					"number": bson.M{"bsonType": "string", "minLength": 1},
					"type":   bson.M{"bsonType": "string"},
					"price":  bson.M{"bsonType": "number", "minimum": 0},
				},
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"nights": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"total_price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"checked_in",
					"completed",
					"cancelled",
				},
			},

			"payment": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"method": bson.M{"bsonType": "string", "enum": []string{"card", "cash", "transfer"}},
					"paid":   bson.M{"bsonType": "bool"},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
