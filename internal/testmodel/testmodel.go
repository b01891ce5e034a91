// Package testmodel holds the types shared by tests across packages.
package testmodel

import (
	"time"

	"github.com/google/uuid"
)

type StringsAbc struct {
	A   string
	B   string
	C   string
	Def StringsDef
}

type StringsDef struct {
	D   string
	E   string
	F   string
	Ghi StringsGhi
}

type StringsGhi struct {
	G string
	H string
	I string
}

// Node is a singly linked list.
type Node struct {
	Value string
	Next  *Node
}

// Parent and Child reference each other.
type Parent struct {
	Name     string
	Children []Child
}

type Child struct {
	Name   string
	Parent *Parent
}

// JSON, Tree and Chain recurse without a struct in between.
type (
	JSON  map[string]JSON
	Tree  []Tree
	Chain *Chain
)

// Document holds a recursive map below a struct.
type Document struct {
	Title string
	Body  JSON
}

type Address struct {
	Street  string
	City    string
	Country string
}

type Phone struct {
	CountryCode string
	Number      string
}

type Person struct {
	ID       uuid.UUID
	Name     string
	Age      int
	Email    string
	Address  *Address
	Phones   []Phone
	Tags     map[string]int
	Birthday time.Time
	Nickname *string
	secret   string
}

func (p *Person) Secret() string { return p.secret }

func (p *Person) GetName() string { return p.Name }

func (p *Person) GetAddress() *Address { return p.Address }

func (p *Person) SetName(name string) { p.Name = "set:" + name }

// SetAge does not follow the usual setter shape and is never treated as one.
func (p *Person) SetAge(age int) int {
	p.Age = age

	return age
}

// Entity is embedded by value in Customer.
type Entity struct {
	ID      int64
	Created time.Time
}

type Customer struct {
	Entity
	Name  string
	Email string   `validate:"email"`
	Code  string   `validate:"len=6,numeric"`
	Score int      `validate:"min=10,max=20"`
	Level uint8    `validate:"gt=3,lt=6"`
	Notes []string `validate:"min=2,max=2"`
	Ref   string   `gorm:"type:varchar(4)"`
	Color string   `validate:"oneof=red green blue"`
}

// Shadowing redeclares a promoted field.
type Shadowing struct {
	Entity
	ID string
}

type Box[T any] struct {
	Value T
	Items []T
}

type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Phantom does not use its type parameter in any field.
type Phantom[T any] struct {
	N int
}

// Labeled embeds a generic instantiation.
type Labeled struct {
	Box[Item]
	Label string
}

type Item struct {
	SKU   string
	Price float64
}

type Shape interface {
	Area() float64
}

type Circle struct {
	Radius float64
}

func (c Circle) Area() float64 { return 3 * c.Radius * c.Radius }

type Square struct {
	Side float64
}

func (s Square) Area() float64 { return s.Side * s.Side }

type Drawing struct {
	Title  string
	Shapes []Shape
	Main   Shape
}

type Level int

const (
	LevelLow Level = iota + 1
	LevelHigh
)

type Color string

type Palette struct {
	Primary Color
	Levels  map[Level]Color
	Grid    [2][3]int
	Ch      chan int
	Fn      func()
}

// Spiral nests fields so assignment chains cross several depths.
type Spiral struct {
	V1    string
	V9    string
	Inner SpiralInner
}

type SpiralInner struct {
	V2    string
	V8    string
	Inner SpiralCore
}

type SpiralCore struct {
	V3    string
	V7    string
	Inner SpiralCenter
}

type SpiralCenter struct {
	V4 string
	V6 string
	V5 string
}

// Account is populated through setters in method assignment mode.
type Account struct {
	Owner   string
	Balance int
	aliases []string
}

func (a *Account) SetOwner(owner string) { a.Owner = "set:" + owner }

// SetAlias has no backing field.
func (a *Account) SetAlias(alias string) { a.aliases = append(a.aliases, alias) }

func (a *Account) Aliases() []string { return a.aliases }
