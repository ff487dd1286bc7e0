package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Address struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	FirstName string        `bson:"firstName" json:"firstName"`
	LastName  string        `bson:"lastName" json:"lastName"`
	Email     string        `bson:"email" json:"email"`
	Street    string        `bson:"street" json:"street"`
	City      string        `bson:"city" json:"city"`
	State     string        `bson:"state" json:"state"`
	Zipcode   string        `bson:"zipcode" json:"zipcode"`
	Country   string        `bson:"country" json:"country"`
	Phone     string        `bson:"phone" json:"phone"`
}
