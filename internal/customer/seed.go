package customer

import "time"

// Seed returns the demo customers shown on a fresh dashboard.
func Seed() []Customer {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	}
	lat, lng := -23.5614, -46.6559

	return []Customer{
		{
			ID:          "001",
			Kind:        KindIndividual,
			Document:    "529.982.247-25",
			Name:        "João Silva",
			ContactName: "João Silva",
			Email:       "joao.silva@email.com",
			Phone:       "(11) 98765-4321",
			Address: Address{
				CEP: "01310100", Street: "Avenida Paulista", Number: "1000",
				Neighborhood: "Bela Vista", Region: "Centro", City: "São Paulo", State: "SP",
			},
			Latitude:  &lat,
			Longitude: &lng,
			Active:    true,
			CreatedAt: day(2024, time.January, 15),
		},
		{
			ID:          "002",
			Kind:        KindIndividual,
			Document:    "111.444.777-35",
			Name:        "Maria Santos",
			ContactName: "Maria Santos",
			Email:       "maria.santos@email.com",
			Phone:       "(21) 99876-5432",
			Address: Address{
				CEP: "20040002", Street: "Rua da Assembleia", Number: "10",
				Neighborhood: "Centro", City: "Rio de Janeiro", State: "RJ",
			},
			Active:    true,
			CreatedAt: day(2024, time.February, 20),
		},
		{
			ID:          "003",
			Kind:        KindCompany,
			Document:    "11.222.333/0001-81",
			Name:        "Empresa ABC Comércio Ltda",
			TradeName:   "Empresa ABC",
			ContactName: "Carlos Pereira",
			Email:       "contato@empresaabc.com.br",
			Phone:       "(31) 3333-4444",
			Address: Address{
				CEP: "30130010", Street: "Avenida Afonso Pena", Number: "500",
				Neighborhood: "Centro", City: "Belo Horizonte", State: "MG",
			},
			Active:    false,
			CreatedAt: day(2024, time.March, 10),
		},
		{
			ID:          "004",
			Kind:        KindCompany,
			Document:    "98.765.432/0001-98",
			Name:        "Tech Solutions Tecnologia S.A.",
			TradeName:   "Tech Solutions",
			ContactName: "Ana Costa",
			Email:       "ana@techsolutions.com.br",
			Phone:       "(41) 3222-1100",
			Address: Address{
				CEP: "80010000", Street: "Rua XV de Novembro", Number: "250",
				Neighborhood: "Centro", City: "Curitiba", State: "PR",
			},
			Active:    false,
			CreatedAt: day(2024, time.April, 5),
		},
	}
}
