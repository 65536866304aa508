package catalog

import "github.com/angelmondragon/storefront-demo/pkg/types"

const (
	KeySuperAwesome  = "super_awesome"
	KeyTotallyRandom = "totally_random"
	KeyGamingGoodies = "gaming_goodies"
	KeyFoodFun       = "food_fun"
)

func defaultCategories() []Category {
	return []Category{
		{
			Key:         KeySuperAwesome,
			Title:       "✨ Super Awesome Stuff ✨",
			Description: "Things that make you go WOOOOW!",
			Items: []Item{
				{
					ID:            1,
					Name:          "Magic Rainbow Socks",
					Description:   "They don't actually change color, but they're still cool!",
					Price:         types.MustMoney("19.99"),
					Quality:       5,
					Image:         "https://images.unsplash.com/photo-1586350977771-b3b0abd50c82?w=400&h=400&fit=crop",
					SellerComment: "My grandma knitted these while riding a unicorn! 🦄",
				},
				{
					ID:            2,
					Name:          "Anti-Gravity Coffee Mug",
					Description:   "Keeps your coffee in place* (*when right side up)",
					Price:         types.MustMoney("24.99"),
					Quality:       4,
					Image:         "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=400&h=400&fit=crop",
					SellerComment: "60% of the time, it works every time! ☕",
				},
				{
					ID:            6,
					Name:          "Glow-in-the-Dark Toothbrush",
					Description:   "Lights up your smile - literally!",
					Price:         types.MustMoney("29.99"),
					Quality:       5,
					Image:         "https://images.unsplash.com/photo-1623733164938-5ee2b93123e6?w=400&h=400&fit=crop",
					SellerComment: "Went viral for making brushing feel like a rave! 🪥✨",
				},
			},
		},
		{
			Key:         KeyTotallyRandom,
			Title:       "🎲 Totally Random Things 🎲",
			Description: "You never knew you needed these!",
			Items: []Item{
				{
					ID:            3,
					Name:          "Invisible Pen",
					Description:   "School is coming and your kid uses a laptop, GET IT ANYWAYS",
					Price:         types.MustMoney("9.99"),
					Quality:       3,
					Image:         "https://images.unsplash.com/photo-1585336261022-680e295ce3fe?w=400&h=400&fit=crop",
					SellerComment: "Perfect for writing secret messages that even YOU can't read! 🔍 (Warning: May actually be an empty pen case) 😉",
				},
				{
					ID:            7,
					Name:          "Mini Desktop Vacuum",
					Description:   "Sucks up crumbs and tiny regrets from your desk",
					Price:         types.MustMoney("14.99"),
					Quality:       4,
					Image:         "https://images.unsplash.com/photo-1603894584373-2d71b8f06a83?w=400&h=400&fit=crop",
					SellerComment: "TikTok loves this little guy - it's oddly satisfying! 🧹",
				},
			},
		},
		{
			Key:         KeyGamingGoodies,
			Title:       "🎮 Gaming Goodies 🕹️",
			Description: "Level up your life!",
			Items: []Item{
				{
					ID:            4,
					Name:          "Cardboard Gaming PC",
					Description:   "Eco-friendly gaming setup, batteries not included (or needed)",
					Price:         types.MustMoney("49.99"),
					Quality:       5,
					Image:         "https://images.unsplash.com/photo-1593640495253-23196b27a87f?w=400&h=400&fit=crop",
					SellerComment: "Made from 100% recycled dreams! 🌱",
				},
				{
					ID:            8,
					Name:          "RGB Gaming Gloves",
					Description:   "Light-up gloves for ultimate hand-eye coordination",
					Price:         types.MustMoney("39.99"),
					Quality:       5,
					Image:         "https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=400&h=400&fit=crop",
					SellerComment: "Streamers can't stop showing these off - pure RGB vibes! 🌈",
				},
			},
		},
		{
			Key:         KeyFoodFun,
			Title:       "🍕 Food Fun 🌮",
			Description: "Deliciously silly eats!",
			Items: []Item{
				{
					ID:            5,
					Name:          "Infinite Pizza Slice",
					Description:   "The more you eat, the more there is! (Results may vary)",
					Price:         types.MustMoney("15.99"),
					Quality:       5,
					Image:         "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=400&h=400&fit=crop",
					SellerComment: "Warning: May cause infinite happiness! 🍕",
				},
				{
					ID:            9,
					Name:          "Edible Coffee Cup",
					Description:   "Drink your coffee, then eat the cup - zero waste!",
					Price:         types.MustMoney("12.99"),
					Quality:       4,
					Image:         "https://images.unsplash.com/photo-1494314675226-cca9f87f251f?w=400&h=400&fit=crop",
					SellerComment: "This went viral for being crunchy and caffeinated! ☕🍪",
				},
			},
		},
	}
}
