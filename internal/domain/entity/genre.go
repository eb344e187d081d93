package entity

// DefaultGenres 初始化时写入的题材列表
var DefaultGenres = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Drama",
	"Fantasy",
	"Historical",
	"Horror",
	"Mystery",
	"Romance",
	"Sci-Fi",
	"Slice of Life",
	"Thriller",
}

// FieldGenreName 题材文档字段名
const FieldGenreName = "name"
