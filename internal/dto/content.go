package dto

type BlogInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

type PostInput struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
}

type CommentInput struct {
	Content string `json:"content"`
}

type LikeStatusInput struct {
	LikeStatus string `json:"likeStatus"`
}
